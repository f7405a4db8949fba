package service

import (
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
)

// AssertOwner 匿名用户和非所有者都不能修改
func AssertOwner(entity model.Owned, viewerID int64) error {
	if viewerID == 0 || entity == nil || entity.GetOwnerID() != viewerID {
		return errno.Forbidden
	}
	return nil
}
