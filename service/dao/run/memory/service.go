package memory

import (
	"github.com/viant/houghcircles/service/dao"
	"github.com/viant/houghcircles/service/dao/run"
	"github.com/viant/houghcircles/service/dao/store"
)

// Service keeps run records in memory.
type Service struct {
	*store.MemoryStore[string, run.Record]
}

var _ run.Service = (*Service)(nil)

// New creates an in-memory run store.
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, run.Record](
			func(r *run.Record) string { return r.UID },
			func(r *run.Record, parameters []*dao.Parameter) bool { return r.Matches(parameters) },
		),
	}
}
