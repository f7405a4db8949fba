package errno

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

const (
	SuccessCode               = 0
	ServiceErrCode            = 10000
	InvalidInputCode          = 10001
	ForbiddenCode             = 10003
	NotFoundCode              = 10004
	ConflictCode              = 10009
	InvalidTargetCode         = 10022
	TooManyRequestsCode       = 10429
	InternalInconsistencyCode = 10500
	TransientStoreFailureCode = 10503
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{code, msg}
}

// WithMessage 保留错误码，替换提示信息
func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

// Is 只比较错误码，方便 errors.Is(err, errno.NotFound) 这种写法
func (e ErrNo) Is(target error) bool {
	t, ok := target.(ErrNo)
	if !ok {
		return false
	}
	return e.ErrCode == t.ErrCode
}

var (
	Success               = NewErrNo(SuccessCode, "Success")
	ServiceErr            = NewErrNo(ServiceErrCode, "Service internal error")
	InvalidInput          = NewErrNo(InvalidInputCode, "Invalid input")
	Forbidden             = NewErrNo(ForbiddenCode, "Operation not permitted for this user")
	NotFound              = NewErrNo(NotFoundCode, "Resource not found")
	Conflict              = NewErrNo(ConflictCode, "Resource already exists")
	InvalidTarget         = NewErrNo(InvalidTargetCode, "Target does not exist or is not visible")
	TooManyRequests       = NewErrNo(TooManyRequestsCode, "Too many requests, please retry later")
	InternalInconsistency = NewErrNo(InternalInconsistencyCode, "Internal error")
	TransientStoreFailure = NewErrNo(TransientStoreFailureCode, "Store temporarily unavailable, please retry")
)

// ConvertErr convert error to Errno
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return TransientStoreFailure
	}
	// 未归类的错误只进日志，不把内部信息带给客户端
	hlog.Errorf("unclassified error: %v", err)
	return ServiceErr
}
