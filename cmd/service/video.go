package service

import (
	"context"
	"strings"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type PublishVideoRequest struct {
	Title           string
	Description     string
	DurationSeconds float64
	Media           *Upload
	Thumbnail       *Upload
}

// PublishVideo 上传视频和封面，新视频默认已发布
func (s *Service) PublishVideo(ctx context.Context, viewerID int64, req *PublishVideoRequest) (*VideoItem, error) {
	if viewerID == 0 {
		return nil, errno.Forbidden
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || req.Media.empty() || req.Thumbnail.empty() {
		return nil, errno.InvalidInput.WithMessage("title, video file and thumbnail are required")
	}
	if req.DurationSeconds < 0 {
		return nil, errno.InvalidInput.WithMessage("duration must not be negative")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	media, err := s.upload(ctx, req.Media)
	if err != nil {
		return nil, err
	}
	thumb, err := s.upload(ctx, req.Thumbnail)
	if err != nil {
		s.releaseBlob(ctx, media)
		return nil, err
	}
	v := &model.Video{
		ID:              s.idGen.NextID(),
		OwnerID:         viewerID,
		Title:           title,
		Description:     strings.TrimSpace(req.Description),
		Media:           media,
		Thumbnail:       thumb,
		DurationSeconds: req.DurationSeconds,
		IsPublished:     true,
	}
	if err := s.store.CreateVideo(ctx, v); err != nil {
		s.releaseBlob(ctx, media)
		s.releaseBlob(ctx, thumb)
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.syncVideo(ctx, viewerID, v.ID)
}

type UpdateVideoRequest struct {
	Title       string
	Description string
	Thumbnail   *Upload // 可选，替换后释放旧封面
}

func (s *Service) UpdateVideo(ctx context.Context, viewerID, videoID int64, req *UpdateVideoRequest) (*VideoItem, error) {
	title := strings.TrimSpace(req.Title)
	desc := strings.TrimSpace(req.Description)
	if title == "" && desc == "" && req.Thumbnail.empty() {
		return nil, errno.InvalidInput.WithMessage("nothing to update")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	v, err := s.ownedVideo(ctx, viewerID, videoID)
	if err != nil {
		return nil, err
	}
	if title != "" {
		v.Title = title
	}
	if desc != "" {
		v.Description = desc
	}
	old := v.Thumbnail
	if !req.Thumbnail.empty() {
		if v.Thumbnail, err = s.upload(ctx, req.Thumbnail); err != nil {
			return nil, err
		}
	}
	if err := s.store.UpdateVideo(ctx, v); err != nil {
		if v.Thumbnail != old {
			s.releaseBlob(ctx, v.Thumbnail)
		}
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if v.Thumbnail != old {
		s.releaseBlob(ctx, old)
	}
	return s.syncVideo(ctx, viewerID, videoID)
}

func (s *Service) TogglePublish(ctx context.Context, viewerID, videoID int64) (*PublishState, error) {
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	v, err := s.ownedVideo(ctx, viewerID, videoID)
	if err != nil {
		return nil, err
	}
	v.IsPublished = !v.IsPublished
	if err := s.store.UpdateVideo(ctx, v); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if _, err := s.syncVideo(ctx, viewerID, videoID); err != nil {
		return nil, err
	}
	return &PublishState{IsPublished: v.IsPublished}, nil
}

// DeleteVideo 连同评论、点赞和播放列表引用一起删除
func (s *Service) DeleteVideo(ctx context.Context, viewerID, videoID int64) error {
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	v, err := s.ownedVideo(ctx, viewerID, videoID)
	if err != nil {
		return err
	}
	err = s.Cascade.Delete(ctx, model.KindVideo, v.ID, func(ctx context.Context, tx dal.Store) error {
		return tx.DeleteVideo(ctx, v.ID)
	}, v.Media.ID, v.Thumbnail.ID)
	return storeErr(ctx, err, errno.NotFound)
}

// RecordView 播放量加一，登录用户同时写入观看历史
func (s *Service) RecordView(ctx context.Context, viewerID, videoID int64) error {
	if videoID <= 0 {
		return errno.InvalidInput
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return storeErr(ctx, err, errno.NotFound)
	}
	if !v.VisibleTo(viewerID) {
		return errno.NotFound
	}
	if err := s.store.IncrVideoViews(ctx, videoID); err != nil {
		return storeErr(ctx, err, errno.NotFound)
	}
	if viewerID == 0 {
		return nil
	}
	return storeErr(ctx, s.store.PushWatchHistory(ctx, viewerID, videoID, s.opts.MaxHistory), errno.NotFound)
}

// ownedVideo 视频存在且属于观看者
func (s *Service) ownedVideo(ctx context.Context, viewerID, videoID int64) (*model.Video, error) {
	if videoID <= 0 {
		return nil, errno.InvalidInput
	}
	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if err := AssertOwner(v, viewerID); err != nil {
		return nil, err
	}
	return v, nil
}

// syncVideo 重新读取视频并同步全文索引
func (s *Service) syncVideo(ctx context.Context, viewerID, videoID int64) (*VideoItem, error) {
	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, refetchErr(ctx, "video", videoID, err)
	}
	if s.index != nil {
		if err := s.index.Index(context.WithoutCancel(ctx), v); err != nil {
			hlog.CtxWarnf(ctx, "Index video %d failed: %v", v.ID, err)
		}
	}
	items, err := s.Views.videoItems(ctx, viewerID, []*model.Video{v})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return items[0], nil
}
