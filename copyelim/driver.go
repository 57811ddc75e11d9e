package copyelim

import (
	"github.com/vellum-lang/vlc/cfg"
	"github.com/vellum-lang/vlc/dataflow"
)

// driver adapts walker/State to the four operations of the
// dataflow.Driver interface that dataflow.Run drives (spec.md §4.4).
type driver struct {
	w    *walker
	exit *cfg.Block
	n    int
}

func (d *driver) InitialState() dataflow.State { return NewState(d.n) }

func (d *driver) Equal(a, b dataflow.State) bool {
	return StatesEqual(a.(*State), b.(*State))
}

func (d *driver) Merge(a, b dataflow.State) dataflow.State {
	return MergeStates(a.(*State), b.(*State))
}

func (d *driver) ProcessBlock(b *cfg.Block, in dataflow.State) dataflow.State {
	return d.w.processBlock(b, in.(*State), b == d.exit)
}
