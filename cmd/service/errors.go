package service

import (
	"context"
	"errors"

	"VidTube.com/cmd/dal"
	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// storeErr 把存储层错误映射成错误码，missing 是记录不存在时返回的错误码
func storeErr(ctx context.Context, err error, missing errno.ErrNo) error {
	if err == nil {
		return nil
	}
	var e errno.ErrNo
	switch {
	case errors.As(err, &e):
		return e
	case errors.Is(err, dal.ErrNotFound):
		return missing
	case errors.Is(err, dal.ErrDuplicate):
		return errno.Conflict
	case errors.Is(err, dal.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		hlog.CtxWarnf(ctx, "store unavailable: %v", err)
		return errno.TransientStoreFailure
	}
	hlog.CtxErrorf(ctx, "store failure: %v", err)
	return errno.ServiceErr
}

// refetchErr 写入成功后读不回来
func refetchErr(ctx context.Context, what string, id int64, err error) error {
	if errors.Is(err, dal.ErrNotFound) || errors.Is(err, errno.NotFound) {
		hlog.CtxErrorf(ctx, "%s %d not readable after write: %v", what, id, err)
		return errno.InternalInconsistency
	}
	return storeErr(ctx, err, errno.InternalInconsistency)
}
