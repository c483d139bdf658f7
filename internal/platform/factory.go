package platform

import (
	"github.com/ForestMars/DrZONST/pkg/adapters/fs"
	"github.com/ForestMars/DrZONST/pkg/core"
	"github.com/ForestMars/DrZONST/pkg/csl"
	"github.com/ForestMars/DrZONST/pkg/infer"
	"github.com/ForestMars/DrZONST/pkg/prd"
	"github.com/ForestMars/DrZONST/pkg/tsp"
)

// New wires the parser, inference engine, generator and transpiler into a
// service. Inputs are read from local files; outputs go to local files or,
// for s3:// targets, to object storage.
//
//	svc := drzonst.New(drzonst.WithLogger(logger))
func New(opts ...Option) *core.Service {
	return core.NewService(resolve(opts).pipeline())
}

func (o *options) pipeline() core.Pipeline {
	inferOpts := append([]infer.Option{
		infer.WithLogger(o.logger),
		infer.WithContextFallback(o.contextFallback),
		infer.WithPolicy(o.policyName, o.policyDescription),
	}, o.inferOpts...)

	source := o.source
	if source == nil {
		source = fs.NewSource()
	}
	sink := o.sink
	if sink == nil {
		sink = newRouter(fs.NewSink(fs.WithSinkLogger(o.logger)), o.s3, o.logger)
	}

	return core.Pipeline{
		Parser:     prd.New(prd.WithLogger(o.logger)),
		Inferrer:   infer.New(inferOpts...),
		Generator:  csl.New(csl.WithLogger(o.logger)),
		Transpiler: tsp.New(tsp.WithLogger(o.logger), tsp.WithHost(o.host), tsp.WithVersion(o.version)),
		Source:     source,
		Sink:       sink,
		Logger:     o.logger,
	}
}
