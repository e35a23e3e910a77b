package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hiring-compliance-backend/controllers"
	"hiring-compliance-backend/lib/org"
	"hiring-compliance-backend/middleware"
	apimodels "hiring-compliance-backend/models/api"
	orgapimodels "hiring-compliance-backend/models/api/org"
)

type orgUserController struct {
	controllers.BaseAPIController
}

func InitOrgUserRouters(app *fiber.App) {
	controller := orgUserController{}
	app.Route("users", func(usersRootRoute fiber.Router) {
		usersRootRoute.Use(middleware.AuthorizationRequired())
		usersRootRoute.Use(middleware.RbacMiddleware())
		usersRootRoute.Post("", controller.CreateUser)
		usersRootRoute.Get("list", controller.ListUsers)
		usersRootRoute.Route(":id", func(usersIDRoute fiber.Router) {
			usersIDRoute.Get("", controller.GetUserByID)
			usersIDRoute.Put("", controller.UpdateUser)
			usersIDRoute.Delete("", controller.DeactivateUser)
		})
	})
}

// @Summary Create a team member
// @Tags Team
// @Description Create a team member account
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		orgapimodels.OrgUserData	true	"request body"
// @Success 201 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *orgUserController) CreateUser(ctx *fiber.Ctx) error {
	var payload orgapimodels.OrgUserData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrg(ctx)
	id, err := org.Instance.CreateUser(orgID, payload)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(id))
}

// @Summary Team member list
// @Tags Team
// @Description List team member accounts
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]orgapimodels.OrgUserView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/list [get]
func (c *orgUserController) ListUsers(ctx *fiber.Ctx) error {
	orgID := middleware.GetUserOrg(ctx)
	list, err := org.Instance.ListUsers(orgID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Team member info
// @Tags Team
// @Description Get one team member account
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"user id"
// @Success 200 {object} apimodels.Response{data=orgapimodels.OrgUserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [get]
func (c *orgUserController) GetUserByID(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("user id is not specified"))
	}
	orgID := middleware.GetUserOrg(ctx)
	user, err := org.Instance.GetUser(orgID, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(user))
}

// @Summary Update a team member
// @Tags Team
// @Description Update a team member account
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"user id"
// @Param	body				body		orgapimodels.OrgUserData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [put]
func (c *orgUserController) UpdateUser(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("user id is not specified"))
	}
	var payload orgapimodels.OrgUserData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrg(ctx)
	if err := org.Instance.UpdateUser(orgID, id, payload); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Deactivate a team member
// @Tags Team
// @Description Deactivate a team member account
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"user id"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [delete]
func (c *orgUserController) DeactivateUser(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("user id is not specified"))
	}
	orgID := middleware.GetUserOrg(ctx)
	if err := org.Instance.DeactivateUser(orgID, id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
