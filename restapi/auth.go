package restapi

import (
	log "log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	jwtverifier "github.com/okta/okta-jwt-verifier-golang"
)

// TokenVerifier verifies a bearer access token.
type TokenVerifier interface {
	VerifyAccessToken(token string) error
}

type oktaVerifier struct {
	verifier *jwtverifier.JwtVerifier
}

// NewOktaVerifier verifies tokens issued by the OKTA_DOMAIN default authorization server
// for the OKTA_CLIENT_ID client.
func NewOktaVerifier() TokenVerifier {
	v := jwtverifier.JwtVerifier{
		Issuer: "https://" + os.Getenv("OKTA_DOMAIN") + "/oauth2/default",
		ClaimsToValidate: map[string]string{
			"aud": "api://default",
			"cid": os.Getenv("OKTA_CLIENT_ID"),
		},
	}
	return &oktaVerifier{verifier: v.New()}
}

func (o *oktaVerifier) VerifyAccessToken(token string) error {
	_, err := o.verifier.VerifyAccessToken(token)
	return err
}

// verifyHeaderToken checks the Authorization header before the handler runs.
// LRC_ENV=DEV skips verification, LRC_ENV=QA also accepts the LRC_QA_TOKEN value.
func verifyHeaderToken(tv TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		env := os.Getenv("LRC_ENV")
		if env == "DEV" {
			c.Next()
			return
		}

		token := c.Request.Header.Get("Authorization")
		if !strings.HasPrefix(token, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")

		if env == "QA" {
			if qa := os.Getenv("LRC_QA_TOKEN"); qa != "" && token == qa {
				c.Next()
				return
			}
		}
		if tv == nil {
			tv = NewOktaVerifier()
		}
		if err := tv.VerifyAccessToken(token); err != nil {
			log.Warn("token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": err.Error()})
			return
		}
		c.Next()
	}
}
