package dao

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/dev-toolbox-service/internal/domain"
	"github.com/haierkeys/dev-toolbox-service/internal/model"
	"github.com/haierkeys/dev-toolbox-service/pkg/writequeue"

	"github.com/boltdb/bolt"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	bucketHistory         = []byte("json_history")
	bucketHistoryByTime   = []byte("json_history_by_time")
	bucketHistoryByOrigin = []byte("json_history_by_origin")
)

// NewBoltEngine opens the bolt file at path and creates the history buckets.
// NewBoltEngine 打开 bolt 数据文件并创建历史记录所需的 bucket
func NewBoltEngine(path string) (*bolt.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, errors.Wrap(err, "create bolt dir")
		}
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketHistory, bucketHistoryByTime, bucketHistoryByOrigin} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create bolt buckets")
	}
	return db, nil
}

// timeKey: 8 字节大端 UnixNano + id，按时间升序排列
func timeKey(t time.Time, id string) []byte {
	k := make([]byte, 8+len(id))
	binary.BigEndian.PutUint64(k, uint64(t.UnixNano()))
	copy(k[8:], id)
	return k
}

// originKey: origin + 0x00 + timeKey
func originKey(origin string, t time.Time, id string) []byte {
	k := make([]byte, 0, len(origin)+1+8+len(id))
	k = append(k, origin...)
	k = append(k, 0)
	return append(k, timeKey(t, id)...)
}

func originPrefix(origin string) []byte {
	return append([]byte(origin), 0)
}

type jsonHistoryBoltRepository struct {
	db         *bolt.DB
	writeQueue *writequeue.Manager
	opts       repoOptions
}

// NewJSONHistoryBoltRepository 创建基于 bolt 的 JSONHistoryRepository 实例
func NewJSONHistoryBoltRepository(db *bolt.DB, wq *writequeue.Manager, opts ...RepoOption) domain.JSONHistoryRepository {
	return &jsonHistoryBoltRepository{db: db, writeQueue: wq, opts: newRepoOptions(opts)}
}

func (r *jsonHistoryBoltRepository) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.writeQueue == nil {
		return r.db.Update(fn)
	}
	return r.writeQueue.Execute(ctx, writeKeyJSONHistory, func() error {
		return r.db.Update(fn)
	})
}

func (r *jsonHistoryBoltRepository) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(fn)
}

func decodeHistory(v []byte) (*model.JSONHistory, error) {
	var m model.JSONHistory
	if err := sonic.Unmarshal(v, &m); err != nil {
		return nil, errors.Wrap(err, "decode json history")
	}
	return &m, nil
}

func getHistory(tx *bolt.Tx, id string) (*model.JSONHistory, error) {
	v := tx.Bucket(bucketHistory).Get([]byte(id))
	if v == nil {
		return nil, nil
	}
	return decodeHistory(v)
}

func deleteHistory(tx *bolt.Tx, m *model.JSONHistory) error {
	if err := tx.Bucket(bucketHistory).Delete([]byte(m.ID)); err != nil {
		return err
	}
	if err := tx.Bucket(bucketHistoryByTime).Delete(timeKey(m.CreatedAt, m.ID)); err != nil {
		return err
	}
	return tx.Bucket(bucketHistoryByOrigin).Delete(originKey(m.IPAddress, m.CreatedAt, m.ID))
}

// Create 创建历史记录
func (r *jsonHistoryBoltRepository) Create(ctx context.Context, h *domain.JSONHistory) (*domain.JSONHistory, error) {
	if err := checkIntegrity(h); err != nil {
		return nil, err
	}

	now := r.opts.now().UTC()
	rec := *h
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m := historyToModel(&rec)

	data, err := sonic.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode json history")
	}

	err = r.update(ctx, func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketHistory).Put([]byte(m.ID), data); err != nil {
			return err
		}
		if err := tx.Bucket(bucketHistoryByTime).Put(timeKey(now, m.ID), nil); err != nil {
			return err
		}
		return tx.Bucket(bucketHistoryByOrigin).Put(originKey(m.IPAddress, now, m.ID), nil)
	})
	if err != nil {
		return nil, errors.Wrap(err, "create json history")
	}
	return historyToDomain(m), nil
}

// GetByID 根据ID获取记录
func (r *jsonHistoryBoltRepository) GetByID(ctx context.Context, id string) (*domain.JSONHistory, error) {
	var m *model.JSONHistory
	err := r.view(ctx, func(tx *bolt.Tx) error {
		var err error
		m, err = getHistory(tx, id)
		return err
	})
	if err != nil || m == nil {
		return nil, err
	}
	return historyToDomain(m), nil
}

// ListRecent 获取最近的记录
func (r *jsonHistoryBoltRepository) ListRecent(ctx context.Context, limit int) ([]*domain.JSONHistory, error) {
	return r.List(ctx, "", 0, limit)
}

// ListByOrigin 获取某个来源地址最近的记录
func (r *jsonHistoryBoltRepository) ListByOrigin(ctx context.Context, origin string, limit int) ([]*domain.JSONHistory, error) {
	return r.List(ctx, origin, 0, limit)
}

// List walks the time index (or the origin index) backwards.
// List 倒序遍历时间索引或来源索引实现分页
func (r *jsonHistoryBoltRepository) List(ctx context.Context, origin string, offset, limit int) ([]*domain.JSONHistory, error) {
	list := make([]*domain.JSONHistory, 0)
	if limit <= 0 {
		return list, nil
	}

	err := r.view(ctx, func(tx *bolt.Tx) error {
		var (
			c      *bolt.Cursor
			k      []byte
			prefix []byte
			idOff  = 8
		)
		if origin == "" {
			c = tx.Bucket(bucketHistoryByTime).Cursor()
			k, _ = c.Last()
		} else {
			prefix = originPrefix(origin)
			idOff += len(prefix)
			c = tx.Bucket(bucketHistoryByOrigin).Cursor()
			// 定位到该前缀之后的第一个键，再回退一步
			upper := append(append([]byte{}, origin...), 1)
			if k, _ = c.Seek(upper); k == nil {
				k, _ = c.Last()
			} else {
				k, _ = c.Prev()
			}
		}

		skipped := 0
		for ; k != nil; k, _ = c.Prev() {
			if prefix != nil && !bytes.HasPrefix(k, prefix) {
				break
			}
			if skipped < offset {
				skipped++
				continue
			}
			m, err := getHistory(tx, string(k[idOff:]))
			if err != nil {
				return err
			}
			if m != nil {
				list = append(list, historyToDomain(m))
			}
			if len(list) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Count 获取记录数量
func (r *jsonHistoryBoltRepository) Count(ctx context.Context, origin string) (int64, error) {
	var n int64
	err := r.view(ctx, func(tx *bolt.Tx) error {
		if origin == "" {
			n = int64(tx.Bucket(bucketHistory).Stats().KeyN)
			return nil
		}
		prefix := originPrefix(origin)
		c := tx.Bucket(bucketHistoryByOrigin).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// CountSince 获取 t 之后创建的记录数量
func (r *jsonHistoryBoltRepository) CountSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.view(ctx, func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketHistoryByTime).Cursor()
		for k, _ := c.Seek(timeKey(t, "")); k != nil; k, _ = c.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// CountDistinctOrigins 获取不同来源地址的数量
func (r *jsonHistoryBoltRepository) CountDistinctOrigins(ctx context.Context) (int64, error) {
	var n int64
	err := r.view(ctx, func(tx *bolt.Tx) error {
		var last []byte
		return tx.Bucket(bucketHistoryByOrigin).ForEach(func(k, _ []byte) error {
			i := bytes.IndexByte(k, 0)
			if i < 0 {
				return nil
			}
			if last == nil || !bytes.Equal(last, k[:i]) {
				n++
				last = append(last[:0], k[:i]...)
			}
			return nil
		})
	})
	return n, err
}

// AvgProcessingTime 平均处理耗时
func (r *jsonHistoryBoltRepository) AvgProcessingTime(ctx context.Context) (float64, bool, error) {
	var (
		sum   int64
		count int64
	)
	err := r.view(ctx, func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHistory).ForEach(func(_, v []byte) error {
			m, err := decodeHistory(v)
			if err != nil {
				return err
			}
			sum += m.ProcessingTime
			count++
			return nil
		})
	})
	if err != nil || count == 0 {
		return 0, false, err
	}
	return float64(sum) / float64(count), true, nil
}

// DeleteOlderThan 删除创建时间严格早于 cutoff 的记录
func (r *jsonHistoryBoltRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	bound := timeKey(cutoff, "")

	err := r.update(ctx, func(tx *bolt.Tx) error {
		deleted = 0
		var stale []*model.JSONHistory
		c := tx.Bucket(bucketHistoryByTime).Cursor()
		for k, _ := c.First(); k != nil && bytes.Compare(k[:8], bound) < 0; k, _ = c.Next() {
			m, err := getHistory(tx, string(k[8:]))
			if err != nil {
				return err
			}
			if m == nil {
				continue
			}
			stale = append(stale, m)
		}
		// 游标遍历期间不能删除，统一在遍历后处理
		for _, m := range stale {
			if err := deleteHistory(tx, m); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "delete old json history")
	}
	return deleted, nil
}

// Delete 删除指定记录
func (r *jsonHistoryBoltRepository) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.update(ctx, func(tx *bolt.Tx) error {
		m, err := getHistory(tx, id)
		if err != nil || m == nil {
			found = false
			return err
		}
		found = true
		return deleteHistory(tx, m)
	})
	if err != nil {
		return false, errors.Wrap(err, "delete json history")
	}
	return found, nil
}
