package view

import (
	"slices"

	"github.com/faratech/htop-win/model"
)

const (
	branchMid  = "├─ "
	branchLast = "└─ "
	pipeCont   = "│  "
	blankCont  = "   "
)

type treeFrame struct {
	idx    int
	depth  int
	prefix string // continuation of the ancestors
	last   bool
}

// buildTree reorders rows depth-first. Roots are processes whose parent is
// 0, themselves or absent; processes caught in a parent cycle are promoted
// to roots so every row is emitted exactly once. Children of collapsed
// nodes are omitted.
func buildTree(rows []model.ProcessRecord, collapsed map[uint32]struct{}) []model.ProcessRecord {
	if len(rows) == 0 {
		return rows
	}

	byPID := make(map[uint32]int, len(rows))
	for i := range rows {
		byPID[rows[i].PID] = i
	}
	children := make(map[uint32][]int, len(rows))
	var roots []int
	for i := range rows {
		p := &rows[i]
		if _, ok := byPID[p.ParentPID]; !ok || p.ParentPID == 0 || p.ParentPID == p.PID {
			roots = append(roots, i)
			continue
		}
		children[p.ParentPID] = append(children[p.ParentPID], i)
	}
	byPIDOrder := func(a, b int) int {
		switch {
		case rows[a].PID < rows[b].PID:
			return -1
		case rows[a].PID > rows[b].PID:
			return 1
		}
		return 0
	}
	for pid := range children {
		slices.SortFunc(children[pid], byPIDOrder)
	}

	roots = append(roots, cycleRoots(rows, roots, children, byPIDOrder)...)
	slices.SortFunc(roots, byPIDOrder)

	out := make([]model.ProcessRecord, 0, len(rows))
	emitted := make([]bool, len(rows))
	stack := make([]treeFrame, 0, 64)
	for r := len(roots) - 1; r >= 0; r-- {
		stack = append(stack, treeFrame{idx: roots[r], last: true})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if emitted[f.idx] {
			continue
		}
		emitted[f.idx] = true

		node := rows[f.idx]
		kids := children[node.PID]
		_, isCollapsed := collapsed[node.PID]

		node.TreeDepth = f.depth
		node.HasChildren = len(kids) > 0
		node.IsCollapsed = isCollapsed && node.HasChildren
		node.TreePrefix = ""
		if f.depth > 0 {
			if f.last {
				node.TreePrefix = f.prefix + branchLast
			} else {
				node.TreePrefix = f.prefix + branchMid
			}
		}
		out = append(out, node)

		if node.IsCollapsed {
			continue
		}
		var next string
		if f.depth > 0 {
			if f.last {
				next = f.prefix + blankCont
			} else {
				next = f.prefix + pipeCont
			}
		}
		var pending []int
		for _, k := range kids {
			if !emitted[k] {
				pending = append(pending, k)
			}
		}
		for i := len(pending) - 1; i >= 0; i-- {
			stack = append(stack, treeFrame{
				idx:    pending[i],
				depth:  f.depth + 1,
				prefix: next,
				last:   i == len(pending)-1,
			})
		}
	}
	return out
}

// cycleRoots returns one node per group of rows unreachable from roots,
// lowest pid first.
func cycleRoots(rows []model.ProcessRecord, roots []int, children map[uint32][]int, order func(a, b int) int) []int {
	reached := make([]bool, len(rows))
	var stack []int
	mark := func(from int) {
		stack = append(stack[:0], from)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if reached[i] {
				continue
			}
			reached[i] = true
			stack = append(stack, children[rows[i].PID]...)
		}
	}
	for _, r := range roots {
		mark(r)
	}

	var rest []int
	for i := range rows {
		if !reached[i] {
			rest = append(rest, i)
		}
	}
	if len(rest) == 0 {
		return nil
	}
	slices.SortFunc(rest, order)

	var extra []int
	for _, i := range rest {
		if reached[i] {
			continue
		}
		extra = append(extra, i)
		mark(i)
	}
	return extra
}
