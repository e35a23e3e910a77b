package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hiring-compliance-backend/controllers"
	"hiring-compliance-backend/lib/audit"
	"hiring-compliance-backend/middleware"
	apimodels "hiring-compliance-backend/models/api"
	auditapimodels "hiring-compliance-backend/models/api/audit"
)

type auditApiController struct {
	controllers.BaseAPIController
}

func InitAuditApiRouters(app *fiber.App) {
	controller := auditApiController{}
	app.Route("audit", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.RbacMiddleware())
		router.Post("list", controller.List)
	})
}

// @Summary Audit log
// @Tags Audit
// @Description List audit events with filters, newest first
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		auditapimodels.Filter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]auditapimodels.View}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/audit/list [post]
func (c *auditApiController) List(ctx *fiber.Ctx) error {
	var payload auditapimodels.Filter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	orgID := middleware.GetUserOrg(ctx)
	list, rowCount, err := audit.Instance.List(orgID, payload)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}
