package search

import (
	"context"
	"strconv"
	"time"

	"VidTube.com/cmd/model"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/olivere/elastic/v7"
)

const videoMapping = `{
	"mappings": {
		"properties": {
			"title":        {"type": "text"},
			"description":  {"type": "text"},
			"owner_id":     {"type": "long"},
			"is_published": {"type": "boolean"},
			"created_at":   {"type": "date"}
		}
	}
}`

type videoDoc struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type ElasticIndex struct {
	client *elastic.Client
	index  string
}

func NewElasticIndex(addr, index string) (*ElasticIndex, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(addr),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, err
	}
	return &ElasticIndex{client: client, index: index}, nil
}

// EnsureIndex 索引不存在时按 mapping 创建
func (e *ElasticIndex) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.IndexExists(e.index).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = e.client.CreateIndex(e.index).BodyString(videoMapping).Do(ctx)
	if err != nil && !elastic.IsConflict(err) {
		return err
	}
	hlog.CtxInfof(ctx, "created elastic index %s", e.index)
	return nil
}

func (e *ElasticIndex) Index(ctx context.Context, v *model.Video) error {
	_, err := e.client.Index().
		Index(e.index).
		Id(strconv.FormatInt(v.ID, 10)).
		BodyJson(videoDoc{
			Title:       v.Title,
			Description: v.Description,
			OwnerID:     v.OwnerID,
			IsPublished: v.IsPublished,
			CreatedAt:   v.CreatedAt,
		}).
		Do(ctx)
	return err
}

func (e *ElasticIndex) Remove(ctx context.Context, id int64) error {
	_, err := e.client.Delete().Index(e.index).Id(strconv.FormatInt(id, 10)).Do(ctx)
	if elastic.IsNotFound(err) {
		return nil
	}
	return err
}

func (e *ElasticIndex) Search(ctx context.Context, query string, limit int) ([]int64, error) {
	q := elastic.NewMultiMatchQuery(query, "title", "description")
	res, err := e.client.Search().
		Index(e.index).
		Query(q).
		Size(limit).
		FetchSource(false).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		id, err := strconv.ParseInt(hit.Id, 10, 64)
		if err != nil {
			hlog.CtxWarnf(ctx, "skip malformed index id %q", hit.Id)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
