package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/wemind/app/analytics/pkg/loader"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
	"github.com/iWorld-y/wemind/app/display/internal/repo"
)

type snapshotRepo struct {
	data *Data
	log  *log.Helper
}

func NewSnapshotRepo(data *Data, logger log.Logger) repo.SnapshotRepo {
	return &snapshotRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *snapshotRepo) Load(ctx context.Context, opts loader.Options) *model.Snapshot {
	snap := r.data.loader.Load(ctx, opts)
	if err := snap.Err(); err != nil {
		r.log.WithContext(ctx).Warnf("snapshot %s loaded with warnings: %v", snap.ID, err)
	}
	return snap
}
