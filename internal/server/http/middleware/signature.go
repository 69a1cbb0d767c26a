package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/aquafit/pixreminder/internal/domain/errors"
	"github.com/aquafit/pixreminder/internal/pkg/sig"
)

// SignatureHeader is the HMAC header Shopify attaches to webhook deliveries.
const SignatureHeader = "X-Shopify-Hmac-Sha256"

// VerifySignature rejects webhook deliveries whose body does not match the
// shared-secret HMAC. The body is re-buffered so downstream handlers can
// still bind it.
func VerifySignature(verifier sig.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Enabled() {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !verifier.Verify(body, c.GetHeader(SignatureHeader)) {
			_ = c.Error(domainErrors.ErrInvalidSignature)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
