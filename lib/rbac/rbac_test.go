package rbac

import (
	"hr-pipeline-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/admin_panel/{id}/login [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r1 := pathToRegex(path)

		validUri := "/api/v1/admin_panel/123-321/login"
		isMatch := r1.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri := "/api/v1/admin_panel/login"
		isMatch = r1.MatchString(invalidUri)
		require.Equal(t, false, isMatch)

		path, method, err = parseSwaggerPattern("/api/v1/admin_panel/{id}/login/{otherID} [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r2 := pathToRegex(path)

		validUri = "/api/v1/admin_panel/123-321/login/qwe-ewr123-wr-12"
		isMatch = r2.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri = "/api/v1/admin_panel/we-ewr123-wr-12/login"
		isMatch = r2.MatchString(invalidUri)
		require.Equal(t, false, isMatch)
	})
	t.Run(`правила по ролям`, func(t *testing.T) {
		NewHandler()
		handler, found := Instance.GetRuleFunc("PUT", "/api/v1/space/offer/3f2a/accept")
		require.True(t, found)
		require.True(t, handler("u1", models.RecruiterRole, ""))
		require.False(t, handler("u1", models.InterviewerRole, ""))

		handler, found = Instance.GetRuleFunc("PUT", "/api/v1/space/offer/3f2a/counter/response")
		require.True(t, found)
		require.True(t, handler("u1", models.HiringManagerRole, ""))

		handler, found = Instance.GetRuleFunc("POST", "/api/v1/space/interview/3f2a/evaluation/")
		require.True(t, found)
		require.True(t, handler("u1", models.InterviewerRole, ""))

		_, found = Instance.GetRuleFunc("GET", "/api/v1/space/unknown")
		require.False(t, found)
	})
	t.Run(`разрешения для фронта`, func(t *testing.T) {
		NewHandler()
		permissions := Instance.GetPermissions(models.InterviewerRole)
		require.Contains(t, permissions[models.InterviewModule], models.EvaluatePermission)
		require.NotContains(t, permissions[models.InterviewModule], models.ManagePermission)
		require.Empty(t, permissions[models.OfferModule])
	})
}
