package backend

import (
	"fmt"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/dal/db"
	"VidTube.com/cmd/dal/memdb"
	"VidTube.com/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

const (
	MySQL  = "mysql"
	Memory = "memory"
)

// Open 根据 store.backend 选择实体存储
func Open() (dal.Store, error) {
	switch config.ConfigInfo.Store.Backend {
	case MySQL, "":
		if err := db.Init(); err != nil {
			return nil, fmt.Errorf("init mysql store: %w", err)
		}
		return db.NewStore(db.DB), nil
	case Memory:
		hlog.Warn("using in-memory store, data is not persisted")
		return memdb.New(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", config.ConfigInfo.Store.Backend)
}
