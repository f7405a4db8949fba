package service

import (
	"context"
	"errors"
	"strings"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/oss"
	"VidTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Upload 一个待上传的本地文件
type Upload struct {
	Path        string
	ContentType string
}

func (u *Upload) empty() bool {
	return u == nil || u.Path == ""
}

type RegisterRequest struct {
	UserName string
	Email    string
	FullName string
	Password string
	Avatar   *Upload
	Cover    *Upload
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*CurrentUser, error) {
	name := model.NormalizeName(req.UserName)
	email := model.NormalizeName(req.Email)
	if name == "" || email == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" {
		return nil, errno.InvalidInput.WithMessage("all fields are required")
	}
	if !strings.Contains(email, "@") {
		return nil, errno.InvalidInput.WithMessage("invalid email")
	}

	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	if _, err := s.store.GetUserByName(ctx, name); err == nil {
		return nil, errno.Conflict.WithMessage("username already taken")
	} else if !errors.Is(err, dal.ErrNotFound) {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, errno.Conflict.WithMessage("email already registered")
	} else if !errors.Is(err, dal.ErrNotFound) {
		return nil, storeErr(ctx, err, errno.NotFound)
	}

	hash, err := utils.Crypt(req.Password)
	if err != nil {
		hlog.CtxErrorf(ctx, "Password fail to crypt: %v", err)
		return nil, errno.ServiceErr
	}
	avatar, err := s.upload(ctx, req.Avatar)
	if err != nil {
		return nil, err
	}
	cover, err := s.upload(ctx, req.Cover)
	if err != nil {
		s.releaseBlob(ctx, avatar)
		return nil, err
	}

	u := &model.User{
		ID:           s.idGen.NextID(),
		UserName:     name,
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Avatar:       avatar,
		Cover:        cover,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		s.releaseBlob(ctx, avatar)
		s.releaseBlob(ctx, cover)
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	created, err := s.store.GetUser(ctx, u.ID)
	if err != nil {
		return nil, refetchErr(ctx, "user", u.ID, err)
	}
	hlog.CtxInfof(ctx, "User %d registered as %s", created.ID, created.UserName)
	return currentUserOf(created), nil
}

// Authenticate login 可以是用户名或邮箱
func (s *Service) Authenticate(ctx context.Context, login, password string) (*CurrentUser, error) {
	login = model.NormalizeName(login)
	if login == "" || password == "" {
		return nil, errno.InvalidInput.WithMessage("username or email and password are required")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	var (
		u   *model.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.store.GetUserByEmail(ctx, login)
	} else {
		u, err = s.store.GetUserByName(ctx, login)
	}
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if !utils.VerifyPassword(password, u.PasswordHash) {
		return nil, errno.Forbidden.WithMessage("invalid credentials")
	}
	return currentUserOf(u), nil
}

func (s *Service) CurrentUser(ctx context.Context, viewerID int64) (*CurrentUser, error) {
	if viewerID == 0 {
		return nil, errno.Forbidden
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	u, err := s.store.GetUser(ctx, viewerID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return currentUserOf(u), nil
}

type UpdateAccountRequest struct {
	FullName string
	Email    string
}

func (s *Service) UpdateAccount(ctx context.Context, viewerID int64, req *UpdateAccountRequest) (*CurrentUser, error) {
	if viewerID == 0 {
		return nil, errno.Forbidden
	}
	fullName := strings.TrimSpace(req.FullName)
	email := model.NormalizeName(req.Email)
	if fullName == "" && email == "" {
		return nil, errno.InvalidInput.WithMessage("nothing to update")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, errno.InvalidInput.WithMessage("invalid email")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	u, err := s.store.GetUser(ctx, viewerID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if fullName != "" {
		u.FullName = fullName
	}
	if email != "" {
		u.Email = email
	}
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.reloadUser(ctx, viewerID)
}

func (s *Service) ChangePassword(ctx context.Context, viewerID int64, oldPassword, newPassword string) error {
	if viewerID == 0 {
		return errno.Forbidden
	}
	if newPassword == "" {
		return errno.InvalidInput.WithMessage("new password is required")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	u, err := s.store.GetUser(ctx, viewerID)
	if err != nil {
		return storeErr(ctx, err, errno.NotFound)
	}
	if !utils.VerifyPassword(oldPassword, u.PasswordHash) {
		return errno.InvalidInput.WithMessage("invalid old password")
	}
	if u.PasswordHash, err = utils.Crypt(newPassword); err != nil {
		hlog.CtxErrorf(ctx, "Password fail to crypt: %v", err)
		return errno.ServiceErr
	}
	return storeErr(ctx, s.store.UpdateUser(ctx, u), errno.NotFound)
}

func (s *Service) UpdateAvatar(ctx context.Context, viewerID int64, file *Upload) (*CurrentUser, error) {
	return s.replaceUserBlob(ctx, viewerID, file, func(u *model.User) *model.Blob { return &u.Avatar })
}

func (s *Service) UpdateCover(ctx context.Context, viewerID int64, file *Upload) (*CurrentUser, error) {
	return s.replaceUserBlob(ctx, viewerID, file, func(u *model.User) *model.Blob { return &u.Cover })
}

// replaceUserBlob 先上传新文件，更新成功后再释放旧文件
func (s *Service) replaceUserBlob(ctx context.Context, viewerID int64, file *Upload, field func(*model.User) *model.Blob) (*CurrentUser, error) {
	if viewerID == 0 {
		return nil, errno.Forbidden
	}
	if file.empty() {
		return nil, errno.InvalidInput.WithMessage("file is required")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	u, err := s.store.GetUser(ctx, viewerID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	blob, err := s.upload(ctx, file)
	if err != nil {
		return nil, err
	}
	slot := field(u)
	old := *slot
	*slot = blob
	if err := s.store.UpdateUser(ctx, u); err != nil {
		s.releaseBlob(ctx, blob)
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	s.releaseBlob(ctx, old)
	return s.reloadUser(ctx, viewerID)
}

// DeleteAccount 删除用户及其全部内容和关系
func (s *Service) DeleteAccount(ctx context.Context, viewerID int64) error {
	if viewerID == 0 {
		return errno.Forbidden
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	u, err := s.store.GetUser(ctx, viewerID)
	if err != nil {
		return storeErr(ctx, err, errno.NotFound)
	}
	err = s.Cascade.Delete(ctx, model.KindUser, u.ID, func(ctx context.Context, tx dal.Store) error {
		return tx.DeleteUser(ctx, u.ID)
	}, u.Avatar.ID, u.Cover.ID)
	return storeErr(ctx, err, errno.NotFound)
}

func (s *Service) reloadUser(ctx context.Context, id int64) (*CurrentUser, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, refetchErr(ctx, "user", id, err)
	}
	return currentUserOf(u), nil
}

// upload 未提供文件时返回空 Blob
func (s *Service) upload(ctx context.Context, file *Upload) (model.Blob, error) {
	if file.empty() {
		return model.Blob{}, nil
	}
	if s.blobs == nil {
		return model.Blob{}, errno.InvalidInput.WithMessage("file storage is not configured")
	}
	blob, err := s.blobs.Upload(ctx, file.Path, file.ContentType)
	if err != nil {
		hlog.CtxErrorf(ctx, "Upload %s failed: %v", file.Path, err)
		if errors.Is(err, oss.ErrUnsupportedType) {
			return model.Blob{}, errno.InvalidInput.WithMessage("unsupported file type")
		}
		return model.Blob{}, errno.TransientStoreFailure
	}
	return *blob, nil
}

func (s *Service) releaseBlob(ctx context.Context, b model.Blob) {
	if b.Empty() || s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(context.WithoutCancel(ctx), b.ID); err != nil {
		hlog.CtxWarnf(ctx, "Release blob %s failed: %v", b.ID, err)
	}
}
