package mw

import (
	"context"
	"errors"
	"strconv"
	"time"

	"VidTube.com/cmd/api/handlers"
	"VidTube.com/cmd/service"
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/jwt"
)

type LoginParam struct {
	Login    string `form:"login" json:"login"` // 用户名或邮箱
	Password string `form:"password" json:"password"`
}

type TokenResponse struct {
	Token  string    `json:"token"`
	Expire time.Time `json:"expire"`
}

// Auth 登录由 hertz-contrib/jwt 处理；刷新需要核对令牌 ID，覆盖了 RefreshHandler
type Auth struct {
	*jwt.HertzJWTMiddleware
	svc *service.Service
}

const authErrKey = "auth_err"

// NewAuth ID 以字符串写入 claims 避免精度丢失
func NewAuth(svc *service.Service, secret string, timeout time.Duration) (*Auth, error) {
	m, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:         "vidtube",
		Key:           []byte(secret),
		Timeout:       timeout,
		MaxRefresh:    timeout,
		IdentityKey:   constants.IdentityKey,
		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if sess, ok := data.(*service.Session); ok {
				return jwt.MapClaims{
					constants.IdentityKey: strconv.FormatInt(sess.UserID, 10),
					constants.TokenIDKey:  sess.TokenID,
				}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			return utils.Transfer(jwt.ExtractClaims(ctx, c)[constants.IdentityKey])
		},
		Authenticator: func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
			var p LoginParam
			if err := c.BindAndValidate(&p); err != nil {
				return nil, errno.InvalidInput.WithMessage(err.Error())
			}
			return svc.Login(ctx, p.Login, p.Password)
		},
		// 错误码暂存到请求上下文，Unauthorized 原样返回
		HTTPStatusMessageFunc: func(e error, ctx context.Context, c *app.RequestContext) string {
			Err := authErr(e)
			c.Set(authErrKey, Err)
			return Err.ErrMsg
		},
		LoginResponse: func(ctx context.Context, c *app.RequestContext, code int, token string, expire time.Time) {
			handlers.SendResponse(c, errno.Success, TokenResponse{Token: token, Expire: expire})
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			Err := errno.Forbidden.WithMessage(message)
			if v, ok := c.Get(authErrKey); ok {
				if e, ok := v.(errno.ErrNo); ok {
					Err = e
				}
			}
			handlers.SendResponse(c, Err, nil)
		},
	})
	if err != nil {
		return nil, err
	}
	return &Auth{HertzJWTMiddleware: m, svc: svc}, nil
}

// authErr 业务错误保留错误码，jwt 自身的错误一律按 Forbidden
func authErr(e error) errno.ErrNo {
	var Err errno.ErrNo
	if errors.As(e, &Err) {
		return Err
	}
	return errno.Forbidden.WithMessage(e.Error())
}

// RefreshHandler 旧令牌的 jti 必须仍是用户当前的刷新令牌，刷新后轮换
func (a *Auth) RefreshHandler(ctx context.Context, c *app.RequestContext) {
	claims, err := a.CheckIfTokenExpire(ctx, c)
	if err != nil {
		handlers.SendResponse(c, authErr(err), nil)
		return
	}
	tokenID, _ := claims[constants.TokenIDKey].(string)
	sess, err := a.svc.RefreshSession(ctx, utils.Transfer(claims[constants.IdentityKey]), tokenID)
	if err != nil {
		handlers.SendResponse(c, err, nil)
		return
	}
	token, expire, err := a.TokenGenerator(sess)
	if err != nil {
		hlog.CtxErrorf(ctx, "sign refreshed token for user %d: %v", sess.UserID, err)
		handlers.SendResponse(c, errno.ServiceErr, nil)
		return
	}
	handlers.SendResponse(c, errno.Success, TokenResponse{Token: token, Expire: expire})
}

// Identity 可选身份：没有令牌按匿名处理，令牌无效则拒绝
func Identity(auth *Auth) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		claims, err := auth.GetClaimsFromJWT(ctx, c)
		if errors.Is(err, jwt.ErrEmptyAuthHeader) {
			c.Next(ctx)
			return
		}
		if err != nil {
			hlog.CtxInfof(ctx, "rejecting token: %v", err)
			handlers.SendResponse(c, errno.Forbidden.WithMessage("invalid or expired token"), nil)
			c.Abort()
			return
		}
		viewerID := utils.Transfer(claims[constants.IdentityKey])
		if viewerID <= 0 {
			handlers.SendResponse(c, errno.Forbidden.WithMessage("invalid token subject"), nil)
			c.Abort()
			return
		}
		c.Set(constants.IdentityKey, viewerID)
		c.Next(ctx)
	}
}
