package client

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BulkSave mengirim N saveData bersamaan dan menunggu semuanya (mis. absensi satu kelas).
// Satu gagal → error dikembalikan, yang sudah sukses tidak di-rollback.
func BulkSave(ctx context.Context, backend Backend, entity string, records []Record) ([]SaveResult, error) {
	results := make([]SaveResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			res, err := backend.Save(gctx, entity, rec)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
