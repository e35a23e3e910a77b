package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hiring-compliance-backend/controllers"
	"hiring-compliance-backend/lib/training"
	"hiring-compliance-backend/middleware"
	apimodels "hiring-compliance-backend/models/api"
	trainingapimodels "hiring-compliance-backend/models/api/training"
)

type trainingApiController struct {
	controllers.BaseAPIController
}

func InitTrainingApiRouters(app *fiber.App) {
	controller := trainingApiController{}
	app.Route("training", func(router fiber.Router) {
		// magic link redemption carries its own single-use token
		router.Post("complete/:token", controller.Complete)
		router.Route("assignments", func(assignmentsRoute fiber.Router) {
			assignmentsRoute.Use(middleware.AuthorizationRequired())
			assignmentsRoute.Use(middleware.RbacMiddleware())
			assignmentsRoute.Get("", controller.ListAssignments)
			assignmentsRoute.Post("", controller.Assign)
			assignmentsRoute.Post(":id/token", controller.IssueToken)
		})
	})
}

// @Summary Assign a training module
// @Tags Training
// @Description Assign a compliance training module to a team member
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		trainingapimodels.AssignRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/training/assignments [post]
func (c *trainingApiController) Assign(ctx *fiber.Ctx) error {
	var payload trainingapimodels.AssignRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrg(ctx)
	id, err := training.Instance.Assign(orgID, payload)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Training assignments
// @Tags Training
// @Description List training assignments of the organization
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]trainingapimodels.AssignmentView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/training/assignments [get]
func (c *trainingApiController) ListAssignments(ctx *fiber.Ctx) error {
	orgID := middleware.GetUserOrg(ctx)
	list, err := training.Instance.ListAssignments(orgID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Issue a training link token
// @Tags Training
// @Description Issue a single-use magic token for the assignment completion link
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"assignment id"
// @Success 200 {object} apimodels.Response{data=trainingapimodels.TokenResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/training/assignments/{id}/token [post]
func (c *trainingApiController) IssueToken(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("assignment id is not specified"))
	}
	orgID := middleware.GetUserOrg(ctx)
	resp, err := training.Instance.IssueToken(orgID, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Complete a training module
// @Tags Training
// @Description Redeem a magic token, mark the assignment completed and issue the certificate
// @Param	token				path		string	true	"magic token"
// @Success 200 {object} apimodels.Response{data=trainingapimodels.CompleteResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/training/complete/{token} [post]
func (c *trainingApiController) Complete(ctx *fiber.Ctx) error {
	token := ctx.Params("token")
	if token == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("token is not specified"))
	}
	resp, err := training.Instance.Complete(ctx.Context(), token)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
