package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hiring-compliance-backend/controllers"
	atssync "hiring-compliance-backend/lib/ats/sync"
	"hiring-compliance-backend/lib/integration"
	"hiring-compliance-backend/middleware"
	"hiring-compliance-backend/models"
	apimodels "hiring-compliance-backend/models/api"
	integrationapimodels "hiring-compliance-backend/models/api/integration"
)

type integrationApiController struct {
	controllers.BaseAPIController
}

func InitIntegrationApiRouters(app *fiber.App) {
	controller := integrationApiController{}
	app.Route("integrations", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.RbacMiddleware())
		router.Get("", controller.List)
		router.Post("", controller.Connect)
		router.Post("exchange", controller.Exchange)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Delete("", controller.Disconnect)
			idRoute.Post("sync", controller.RunSync)
		})
	})
}

// @Summary Connected integrations
// @Tags ATS integrations
// @Description List the organization's ATS integrations
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]integrationapimodels.View}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/integrations [get]
func (c *integrationApiController) List(ctx *fiber.Ctx) error {
	orgID := middleware.GetUserOrg(ctx)
	list, err := integration.Instance.List(orgID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Start connecting an ATS
// @Tags ATS integrations
// @Description Issue a link token for the embedded connect widget
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		integrationapimodels.ConnectRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=integrationapimodels.ConnectResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/integrations [post]
func (c *integrationApiController) Connect(ctx *fiber.Ctx) error {
	var payload integrationapimodels.ConnectRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrg(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := integration.Instance.Connect(ctx.Context(), orgID, userID, payload.VendorSlug)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Finish connecting an ATS
// @Tags ATS integrations
// @Description Exchange the widget's public token and activate the integration
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		integrationapimodels.ExchangeRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=integrationapimodels.View}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/integrations/exchange [post]
func (c *integrationApiController) Exchange(ctx *fiber.Ctx) error {
	var payload integrationapimodels.ExchangeRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrg(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := integration.Instance.Exchange(ctx.Context(), orgID, userID, payload.PublicToken)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Disconnect an integration
// @Tags ATS integrations
// @Description Revoke the credential while keeping the synced data
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"integration id"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/integrations/{id} [delete]
func (c *integrationApiController) Disconnect(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("integration id is not specified"))
	}
	orgID := middleware.GetUserOrg(ctx)
	userID := middleware.GetUserID(ctx)
	if err := integration.Instance.Disconnect(ctx.Context(), orgID, userID, id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Run a sync pass
// @Tags ATS integrations
// @Description Pull candidates and applications synchronously. Per-record failures are reported in the stats, not as an error status.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"integration id"
// @Param	full_sync			query		bool	false	"ignore the incremental lower bound"
// @Success 200 {object} apimodels.Response{data=syncapimodels.SyncStats}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/integrations/{id}/sync [post]
func (c *integrationApiController) RunSync(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("integration id is not specified"))
	}
	orgID := middleware.GetUserOrg(ctx)
	fullSync := ctx.QueryBool("full_sync")
	stats, err := atssync.Instance.RunSync(ctx.Context(), orgID, id, fullSync, models.AuditSourceManualSync)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(stats))
}
