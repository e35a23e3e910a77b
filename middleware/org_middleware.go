package middleware

import (
	"github.com/gofiber/fiber/v2"
	authutils "hiring-compliance-backend/lib/utils/auth-utils"
	"hiring-compliance-backend/models"
	apimodels "hiring-compliance-backend/models/api"
)

func GetUserOrg(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if org, exist := claims["org"]; exist {
		return org.(string)
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetOrgRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func OrgAdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetOrgRole(ctx).IsOrgAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not permitted"))
		}
		return ctx.Next()
	}
}
