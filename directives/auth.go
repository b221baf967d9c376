package directives

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/models"
	"github.com/laikahq/audit_backend/utils"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"gorm.io/gorm"
)

// retrieve user from redis or db
func getUser(username string, ctx context.Context) (*models.User, error) {
	var user models.User
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}

	if !exists {

		db := config.GetDB()
		if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Take(&user).Error; err != nil {
			return nil, err
		}

		token_lifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
		if err != nil {
			return nil, err
		}

		if err := config.SetRedisObject("User:"+user.Username, &user, time.Duration(token_lifespan)*time.Hour); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// check if the gqlpath is allowed for the user's role
// using a map for faster look up, non-existent key will return false, default zero for boolean
func authorizeUser(role models.UserRole, gqlpath string) error {
	if allowed := models.GetRolePaths(role)[gqlpath]; !allowed {
		if defaultAllowed := models.GetDefaultAllowedPaths()[gqlpath]; defaultAllowed {
			return nil
		}
		return &gqlerror.Error{Message: "Unauthorized"}
	}
	return nil
}

func Auth(ctx context.Context, obj interface{}, next graphql.Resolver) (interface{}, error) {

	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return nil, &gqlerror.Error{
			Message: "Access Denied",
		}
	}

	user, err := getUser(username, ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// destroy current session if user has been deleted
			models.Logout(ctx)
		}
		return nil, &gqlerror.Error{
			Message: err.Error(),
		}
	}
	if !*user.IsActive {
		return nil, &gqlerror.Error{
			Message: "User is disabled",
		}
	}

	gqlpath := graphql.GetPath(ctx).String()

	if err := authorizeUser(user.Role, gqlpath); err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, utils.ContextKeyOrganizationId, user.OrganizationId)
	ctx = context.WithValue(ctx, utils.ContextKeyUserId, user.ID)
	ctx = context.WithValue(ctx, utils.ContextKeyUserName, user.FullName())
	ctx = utils.SetUserRoleInContext(ctx, string(user.Role))
	ctx = utils.SetIsAdminInContext(ctx, user.Role == models.UserRoleConcierge)

	return next(ctx)
}
