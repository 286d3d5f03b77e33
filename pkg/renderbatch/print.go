package renderbatch

import (
	"fmt"
	"strconv"

	"github.com/xlab/treeprint"
)

// Print renders s as an indented tree: one branch per updated component,
// edits nested by StepIn/StepOut, and the frame subtree each edit
// references.
func Print(s *Spec) string {
	root := treeprint.NewWithRoot("batch")
	for _, d := range s.Diffs {
		c := root.AddBranch(fmt.Sprintf("component %d (%d edits)", d.ComponentID, len(d.Edits)))
		stack := []treeprint.Tree{c}
		for _, e := range d.Edits {
			top := stack[len(stack)-1]
			switch e.Type {
			case EditStepIn:
				stack = append(stack, top.AddBranch(e.describe()))
			case EditStepOut:
				top.AddNode(e.describe())
				if len(stack) > 1 {
					stack = stack[:len(stack)-1]
				}
			case EditPrependFrame, EditSetAttribute, EditUpdateText:
				b := top.AddBranch(e.describe())
				printFrame(b, s.Frames, e.NewTreeIndex)
			default:
				top.AddNode(e.describe())
			}
		}
	}
	if len(s.DisposedComponentIDs) > 0 {
		root.AddNode(fmt.Sprintf("disposed components %v", s.DisposedComponentIDs))
	}
	if len(s.DisposedEventHandlerIDs) > 0 {
		root.AddNode(fmt.Sprintf("disposed event handlers %v", s.DisposedEventHandlerIDs))
	}
	return root.String()
}

func (e Edit) describe() string {
	switch e.Type {
	case EditPrependFrame, EditSetAttribute, EditUpdateText:
		return fmt.Sprintf("%s sibling=%d frame=%d", e.Type, e.SiblingIndex, e.NewTreeIndex)
	case EditRemoveAttribute:
		return fmt.Sprintf("%s sibling=%d name=%q", e.Type, e.SiblingIndex, e.RemovedAttributeName)
	case EditStepOut:
		return e.Type.String()
	default:
		return fmt.Sprintf("%s sibling=%d", e.Type, e.SiblingIndex)
	}
}

// printFrame adds frames[index] and, for elements, its descendants.
func printFrame(t treeprint.Tree, frames []Frame, index int32) {
	if index < 0 || int(index) >= len(frames) {
		t.AddNode("frame " + strconv.Itoa(int(index)) + " out of range")
		return
	}
	f := frames[index]
	if f.Type != FrameElement {
		t.AddNode(f.describe())
		return
	}
	b := t.AddBranch(f.describe())
	end := f.DescendantsEndIndex
	if int(end) >= len(frames) {
		end = int32(len(frames) - 1)
	}
	for i := index + 1; i <= end; i++ {
		printFrame(b, frames, i)
		if frames[i].Type == FrameElement && frames[i].DescendantsEndIndex > i {
			i = frames[i].DescendantsEndIndex
		}
	}
}

func (f Frame) describe() string {
	switch f.Type {
	case FrameElement:
		return "<" + f.Name + ">"
	case FrameText:
		return strconv.Quote(f.Name)
	case FrameAttribute:
		if f.EventHandlerID != 0 {
			return fmt.Sprintf("%s -> handler %d", f.Name, f.EventHandlerID)
		}
		return f.Name + "=" + strconv.Quote(f.Value)
	case FrameComponent:
		return "component " + strconv.Itoa(int(f.ComponentID))
	default:
		return fmt.Sprintf("%s frame", f.Type)
	}
}
