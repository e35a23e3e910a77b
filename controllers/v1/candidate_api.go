package apiv1

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"hiring-compliance-backend/controllers"
	"hiring-compliance-backend/lib/candidate"
	"hiring-compliance-backend/lib/docgen"
	"hiring-compliance-backend/middleware"
	apimodels "hiring-compliance-backend/models/api"
	candidateapimodels "hiring-compliance-backend/models/api/candidate"
)

type candidateApiController struct {
	controllers.BaseAPIController
}

func InitCandidateApiRouters(app *fiber.App) {
	controller := candidateApiController{}
	app.Route("candidates", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.RbacMiddleware())
		router.Post("list", controller.List)
		router.Get("summary", controller.Summary)
		router.Post("export", controller.Export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.GetByID)
			idRoute.Patch("consent", controller.UpdateConsent)
			idRoute.Post("disclosure", controller.SendDisclosure)
		})
	})
}

// @Summary Candidate list
// @Tags Candidates
// @Description List synced candidates with compliance filters
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		candidateapimodels.Filter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=candidateapimodels.ListResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidates/list [post]
func (c *candidateApiController) List(ctx *fiber.Ctx) error {
	var payload candidateapimodels.Filter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrg(ctx)
	resp, err := candidate.Instance.List(orgID, payload)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(resp, resp.RowCount))
}

// @Summary Compliance summary
// @Tags Candidates
// @Description Consent and jurisdiction counters over all synced candidates plus application totals
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.Summary}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidates/summary [get]
func (c *candidateApiController) Summary(ctx *fiber.Ctx) error {
	orgID := middleware.GetUserOrg(ctx)
	resp, err := candidate.Instance.Summary(orgID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Candidate info
// @Tags Candidates
// @Description Candidate detail with applications and compliance flags
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"candidate id"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.DetailView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidates/{id} [get]
func (c *candidateApiController) GetByID(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("candidate id is not specified"))
	}
	orgID := middleware.GetUserOrg(ctx)
	resp, err := candidate.Instance.GetByID(orgID, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Update consent state
// @Tags Candidates
// @Description Store the manually curated consent state and recompute flags
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"candidate id"
// @Param	body				body		candidateapimodels.ConsentUpdateRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidates/{id}/consent [patch]
func (c *candidateApiController) UpdateConsent(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("candidate id is not specified"))
	}
	var payload candidateapimodels.ConsentUpdateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrg(ctx)
	userID := middleware.GetUserID(ctx)
	if err := candidate.Instance.UpdateConsent(orgID, id, userID, payload); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Send a disclosure notice
// @Tags Candidates
// @Description Generate the AI usage disclosure notice and optionally email it
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"candidate id"
// @Param	send_email			query		bool	false	"email the notice to the candidate"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidates/{id}/disclosure [post]
func (c *candidateApiController) SendDisclosure(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("candidate id is not specified"))
	}
	orgID := middleware.GetUserOrg(ctx)
	userID := middleware.GetUserID(ctx)
	sendEmail := ctx.QueryBool("send_email")
	docID, err := docgen.Instance.SendDisclosure(ctx.Context(), orgID, id, userID, sendEmail)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(docID))
}

// @Summary Export candidates
// @Tags Candidates
// @Description Download the filtered candidate set as an xlsx report
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		candidateapimodels.Filter	true	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidates/export [post]
func (c *candidateApiController) Export(ctx *fiber.Ctx) error {
	var payload candidateapimodels.Filter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrg(ctx)
	userID := middleware.GetUserID(ctx)
	buf, err := candidate.Instance.Export(ctx.Context(), orgID, userID, payload)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	fileName := fmt.Sprintf("candidates-%v.xlsx", time.Now().Format("2006-01-02"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}
