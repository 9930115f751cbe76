package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/pkg/types"
)

const ClaimsKey = "claims"

var ErrNoClaims = errors.New("user claims not found in context")

func GetClaimsFromContext(c *gin.Context) (*types.Claims, error) {
	claimsVal, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, ErrNoClaims
	}

	claims, ok := claimsVal.(*types.Claims)
	if !ok {
		return nil, errors.New("invalid user claims type")
	}
	return claims, nil
}

var GetUserIDFromContext = func(c *gin.Context) (string, error) {
	claims, err := GetClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	id := claims.Identity()
	if id == "" {
		return "", errors.New("token has no subject")
	}
	return id, nil
}

var GetUserNameFromContext = func(c *gin.Context) (string, error) {
	claims, err := GetClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	return claims.DisplayName(), nil
}

// ActorFromContext describes the caller for audit and ledger entries.
func ActorFromContext(c *gin.Context) types.Actor {
	actor := types.Actor{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if claims, err := GetClaimsFromContext(c); err == nil {
		actor.ID = claims.Identity()
		actor.Name = claims.DisplayName()
	}
	return actor
}
