package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IPWhitelist returns a middleware that only allows requests from the
// given addresses or CIDR prefixes. An empty list allows everyone.
// Unparsable entries are logged and skipped.
func IPWhitelist(entries []string, log *zap.Logger) gin.HandlerFunc {
	var prefixes []netip.Prefix
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			if addr, err := netip.ParseAddr(e); err == nil {
				prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
				continue
			}
		}
		p, err := netip.ParsePrefix(e)
		if err != nil {
			if log != nil {
				log.Warn("ignoring bad allow entry", zap.String("entry", e), zap.Error(err))
			}
			continue
		}
		prefixes = append(prefixes, p.Masked())
	}

	return func(c *gin.Context) {
		if len(entries) == 0 {
			c.Next()
			return
		}
		addr, err := netip.ParseAddr(c.ClientIP())
		if err == nil {
			addr = addr.Unmap()
			for _, p := range prefixes {
				if p.Contains(addr) {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	}
}
