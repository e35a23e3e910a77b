package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
	"hiring-compliance-backend/models"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/integrations/{id}/sync [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r1 := pathToRegex(path)

		validUri := "/api/v1/integrations/123-321/sync"
		isMatch := r1.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri := "/api/v1/integrations/sync"
		isMatch = r1.MatchString(invalidUri)
		require.Equal(t, false, isMatch)

		path, method, err = parseSwaggerPattern("/api/v1/training/assignments/{id}/token [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r2 := pathToRegex(path)

		validUri = "/api/v1/training/assignments/qwe-ewr123-wr-12/token"
		isMatch = r2.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri = "/api/v1/training/assignments/token"
		isMatch = r2.MatchString(invalidUri)
		require.Equal(t, false, isMatch)
	})

	t.Run(`role rule check`, func(t *testing.T) {
		NewHandler()

		handler, found := Instance.GetRuleFunc("POST", "/api/v1/candidates/abc-123/disclosure")
		require.Equal(t, true, found)
		require.Equal(t, true, handler("org-1", "user-1", models.OrgAdminRole, "/api/v1/candidates/abc-123/disclosure"))
		require.Equal(t, false, handler("org-1", "user-1", models.OrgMemberRole, "/api/v1/candidates/abc-123/disclosure"))

		handler, found = Instance.GetRuleFunc("GET", "/api/v1/candidates/summary")
		require.Equal(t, true, found)
		require.Equal(t, true, handler("org-1", "user-1", models.OrgMemberRole, "/api/v1/candidates/summary"))

		_, found = Instance.GetRuleFunc("POST", "/api/v1/unknown")
		require.Equal(t, false, found)
	})

	t.Run(`permission map check`, func(t *testing.T) {
		NewHandler()

		memberPermissions := Instance.GetPermissions(models.OrgMemberRole)
		require.NotContains(t, memberPermissions[models.CandidatesModule], models.ExportPermission)
		require.Contains(t, memberPermissions[models.CandidatesModule], models.ViewPermission)

		adminPermissions := Instance.GetPermissions(models.OrgAdminRole)
		require.Contains(t, adminPermissions[models.IntegrationsModule], models.SyncPermission)
	})
}
