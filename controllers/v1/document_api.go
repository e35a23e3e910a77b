package apiv1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"hiring-compliance-backend/controllers"
	"hiring-compliance-backend/lib/docgen"
	"hiring-compliance-backend/middleware"
	apimodels "hiring-compliance-backend/models/api"
)

type documentApiController struct {
	controllers.BaseAPIController
}

func InitDocumentApiRouters(app *fiber.App) {
	controller := documentApiController{}
	app.Route("documents", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.RbacMiddleware())
		router.Get(":id", controller.Download)
	})
}

// @Summary Download a document
// @Tags Documents
// @Description Download a stored compliance document (disclosure notice, certificate or export)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"document id"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id} [get]
func (c *documentApiController) Download(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("document id is not specified"))
	}
	orgID := middleware.GetUserOrg(ctx)
	doc, data, err := docgen.Instance.GetDocument(ctx.Context(), orgID, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	ctx.Set(fiber.HeaderContentType, doc.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, doc.Title))
	return ctx.Status(fiber.StatusOK).Send(data)
}
