package bidi

import (
	"context"

	pool "github.com/jolestar/go-commons-pool"
)

// Paragraphs keep their buffers between calls to SetText. Clients which
// resolve many short-lived paragraphs may borrow them from a pool, to
// recycle the buffers.
type paragraphPool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

var globalParagraphPool *paragraphPool

func init() {
	globalParagraphPool = &paragraphPool{}
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return NewParagraph(), nil
		})
	globalParagraphPool.ctx = context.Background()
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1 // infinity
	config.BlockWhenExhausted = false
	globalParagraphPool.opool = pool.NewObjectPool(globalParagraphPool.ctx, factory, config)
}

// NewPooledParagraph returns a paragraph resolver from a pool of resolvers.
// Clients should call Release when they are done with it.
func NewPooledParagraph(opts ...Option) *Paragraph {
	o, err := globalParagraphPool.opool.BorrowObject(globalParagraphPool.ctx)
	if err != nil {
		tracer().Errorf("bidi: cannot borrow paragraph from pool: %v", err)
		return NewParagraph(opts...)
	}
	p := o.(*Paragraph)
	p.pool = globalParagraphPool
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Release puts a pooled paragraph back into the pool. The paragraph must
// not be used afterwards. For paragraphs not created by NewPooledParagraph,
// Release is a no-op.
func (p *Paragraph) Release() {
	if p.pool == nil {
		return
	}
	pp := p.pool
	p.reset()
	if err := pp.opool.ReturnObject(pp.ctx, p); err != nil {
		tracer().Errorf("bidi: cannot return paragraph to pool: %v", err)
	}
}

// reset clears the configuration and the resolution of a paragraph, but
// keeps its buffers.
func (p *Paragraph) reset() {
	p.pool = nil
	p.classifier = DefaultClassifier()
	p.mode = ModeDefault
	p.options = 0
	p.embeddings = nil
	p.orderParagraphsLTR = false
	p.resolved = false
	p.text = nil
	p.length, p.originalLength, p.resultLength = 0, 0, 0
	p.runCount = -1
	p.runs = p.runs[:0]
	p.paras = p.paras[:0]
	p.insertPoints.reset()
}
