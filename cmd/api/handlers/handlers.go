package handlers

import (
	"context"
	"os"

	"VidTube.com/cmd/service"
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendResponse pack response
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	Err := errno.ConvertErr(err)
	c.JSON(consts.StatusOK, Response{
		Code:    Err.ErrCode,
		Message: Err.ErrMsg,
		Data:    data,
	})
}

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ViewerID 身份中间件写入的观看者，匿名为 0
func ViewerID(c *app.RequestContext) int64 {
	return c.GetInt64(constants.IdentityKey)
}

// pathID 路径参数必须是正整数
func pathID(c *app.RequestContext, name string) (int64, error) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		return 0, errno.InvalidInput.WithMessage("invalid " + name)
	}
	return id, nil
}

// PageParam 未传时取默认值，显式传入的值必须 >= 1
type PageParam struct {
	Page  *int `query:"page"`
	Limit *int `query:"limit"`
}

func (p PageParam) page() (service.Page, error) {
	var out service.Page
	if p.Page != nil {
		if *p.Page < 1 {
			return out, errno.InvalidInput.WithMessage("page must be >= 1")
		}
		out.Page = *p.Page
	}
	if p.Limit != nil {
		if *p.Limit < 1 {
			return out, errno.InvalidInput.WithMessage("limit must be >= 1")
		}
		out.Limit = *p.Limit
	}
	return out, nil
}

func bindPage(c *app.RequestContext) (service.Page, error) {
	var p PageParam
	if err := c.BindQuery(&p); err != nil {
		return service.Page{}, errno.InvalidInput.WithMessage("invalid page or limit")
	}
	return p.page()
}

// uploads 把表单中的文件落到临时目录，调用方处理完后执行 cleanup
type uploads struct {
	dir string
}

func (u *uploads) file(c *app.RequestContext, field string) (*service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errno.InvalidInput.WithMessage("multipart form expected")
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if u.dir == "" {
		if u.dir, err = os.MkdirTemp("", "vidtube-upload-*"); err != nil {
			return nil, err
		}
	}
	fh := files[0]
	f, err := os.CreateTemp(u.dir, "upload-*")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	f.Close()
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return nil, err
	}
	return &service.Upload{Path: path, ContentType: fh.Header.Get("Content-Type")}, nil
}

func (u *uploads) cleanup(ctx context.Context) {
	if u.dir == "" {
		return
	}
	if err := os.RemoveAll(u.dir); err != nil {
		hlog.CtxWarnf(ctx, "remove upload dir %s: %v", u.dir, err)
	}
}
