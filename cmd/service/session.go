package service

import (
	"context"

	"VidTube.com/pkg/errno"
	"github.com/google/uuid"
)

// Session 登录后签发的令牌身份，TokenID 与用户记录上的 RefreshTokenRef 对应
type Session struct {
	UserID  int64
	TokenID string
}

// Login 校验密码并签发新的 TokenID，之前签发的令牌不能再刷新
func (s *Service) Login(ctx context.Context, login, password string) (*Session, error) {
	u, err := s.Authenticate(ctx, login, password)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	sess := &Session{UserID: u.ID, TokenID: uuid.NewString()}
	if err := s.store.SetRefreshToken(ctx, u.ID, sess.TokenID); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return sess, nil
}

// RefreshSession 只有当前有效的 TokenID 能换到新的 TokenID
func (s *Service) RefreshSession(ctx context.Context, userID int64, tokenID string) (*Session, error) {
	if userID <= 0 || tokenID == "" {
		return nil, errno.Forbidden.WithMessage("invalid refresh token")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	sess := &Session{UserID: userID, TokenID: uuid.NewString()}
	if err := s.store.SwapRefreshToken(ctx, userID, tokenID, sess.TokenID); err != nil {
		return nil, storeErr(ctx, err, errno.Forbidden.WithMessage("refresh token revoked"))
	}
	return sess, nil
}

// Logout 清空 RefreshTokenRef，已签发的令牌在过期前仍可访问，但不能再刷新
func (s *Service) Logout(ctx context.Context, viewerID int64) error {
	if viewerID == 0 {
		return errno.Forbidden
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	return storeErr(ctx, s.store.SetRefreshToken(ctx, viewerID, ""), errno.NotFound)
}
