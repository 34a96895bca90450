package compute

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Explain renders the operator tree of the Q1 pipeline.
func (p *Pipeline) Explain() string {
	tree := treeprint.New()
	agg := tree.AddBranch(fmt.Sprintf(
		"Aggregate: group by (l_returnflag, l_linestatus), %d banks x %d groups",
		BankCount, GroupCount))
	proj := agg.AddBranch("Project: disc_price, charge (fused into aggregation)")
	filt := proj.AddBranch(fmt.Sprintf("Filter: l_shipdate <= %s", p.filter.Cutoff))
	filt.AddNode(fmt.Sprintf("Scan: lineitem (%d workers)", p.workers))
	return tree.String()
}
