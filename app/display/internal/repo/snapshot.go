package repo

import (
	"context"

	"github.com/iWorld-y/wemind/app/analytics/pkg/loader"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
)

// SnapshotRepo 快照仓库接口
type SnapshotRepo interface {
	// Load 从远端数据服务加载一份快照，失败的数据段以告警形式记录在快照中
	Load(ctx context.Context, opts loader.Options) *model.Snapshot
}
