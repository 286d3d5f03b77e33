package renderer

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/dom"
	"github.com/vango-dev/batchdom/pkg/heap"
	"github.com/vango-dev/batchdom/pkg/renderbatch"
)

// editContext carries the state of one UpdateComponent call.
type editContext struct {
	r      *Renderer
	h      *heap.Heap
	frames renderbatch.ArrayRange
	owner  *component
}

// apply runs the edits strictly in order; later edits address nodes
// created by earlier ones.
func (x *editContext) apply(edits renderbatch.ArraySegment) (int, error) {
	parents := []*html.Node{x.owner.element}

	for i := int32(0); i < edits.Count; i++ {
		e, err := renderbatch.ReadEditAt(x.h, edits, i)
		if err != nil {
			return int(i), errors.New(errors.CodeMalformedBatch).
				WithDetailf("component %d, edit %d", x.owner.id, i).Wrap(err)
		}
		parent := parents[len(parents)-1]
		sibling := int(e.SiblingIndex)

		switch e.Type {
		case renderbatch.EditPrependFrame:
			frame, err := x.frame(e.NewTreeIndex)
			if err != nil {
				return int(i), err
			}
			if sibling < 0 || sibling > dom.ChildCount(parent) {
				return int(i), x.invalidEdit(i, e, "sibling index out of range")
			}
			if _, err := x.insertFrame(parent, sibling, e.NewTreeIndex, frame, 0); err != nil {
				return int(i), err
			}

		case renderbatch.EditRemoveFrame:
			if _, err := dom.RemoveChildAt(parent, sibling); err != nil {
				return int(i), x.invalidEdit(i, e, "no child to remove")
			}

		case renderbatch.EditSetAttribute:
			el, err := x.childElement(parent, i, e)
			if err != nil {
				return int(i), err
			}
			frame, err := x.frame(e.NewTreeIndex)
			if err != nil {
				return int(i), err
			}
			if frame.Type != renderbatch.FrameAttribute {
				return int(i), x.invalidFrame(e.NewTreeIndex, "SetAttribute references a "+frame.Type.String()+" frame")
			}
			x.applyAttribute(el, frame)

		case renderbatch.EditRemoveAttribute:
			el, err := x.childElement(parent, i, e)
			if err != nil {
				return int(i), err
			}
			x.r.unbindAttribute(el, e.RemovedAttributeName)
			dom.RemoveAttribute(el, e.RemovedAttributeName)

		case renderbatch.EditUpdateText:
			node := dom.ChildAt(parent, sibling)
			if node == nil || node.Type != html.TextNode {
				return int(i), x.invalidEdit(i, e, "target is not a text node")
			}
			frame, err := x.frame(e.NewTreeIndex)
			if err != nil {
				return int(i), err
			}
			if frame.Type != renderbatch.FrameText {
				return int(i), x.invalidFrame(e.NewTreeIndex, "UpdateText references a "+frame.Type.String()+" frame")
			}
			if err := dom.SetText(node, frame.Name); err != nil {
				return int(i), x.invalidEdit(i, e, err.Error())
			}

		case renderbatch.EditStepIn:
			el, err := x.childElement(parent, i, e)
			if err != nil {
				return int(i), err
			}
			parents = append(parents, el)

		case renderbatch.EditStepOut:
			if len(parents) == 1 {
				return int(i), errors.New(errors.CodeStepOutOfRoot).
					WithDetailf("component %d, edit %d", x.owner.id, i)
			}
			parents = parents[:len(parents)-1]

		default:
			return int(i), x.invalidEdit(i, e, "unknown edit type")
		}
	}
	return int(edits.Count), nil
}

// insertFrame inserts frame (at frameIndex in the pool) and its subtree into
// parent at childIndex. It returns the number of DOM nodes inserted.
func (x *editContext) insertFrame(parent *html.Node, childIndex int, frameIndex int32, frame renderbatch.Frame, depth int) (int, error) {
	if depth > MaxElementDepth {
		return 0, x.invalidFrame(frameIndex, "subtree exceeds maximum depth")
	}

	switch frame.Type {
	case renderbatch.FrameElement:
		end := frame.DescendantsEndIndex
		if end < frameIndex || end >= x.frames.Count {
			return 0, x.invalidFrame(frameIndex, "descendants end index out of range")
		}
		if frame.Name == "" {
			return 0, x.invalidFrame(frameIndex, "element frame without a tag")
		}
		el := dom.CreateElement(frame.Name)
		if err := dom.InsertChildAt(parent, el, childIndex); err != nil {
			return 0, x.invalidFrame(frameIndex, err.Error())
		}
		next := frameIndex + 1
		for ; next <= end; next++ {
			attr, err := x.frame(next)
			if err != nil {
				return 0, err
			}
			if attr.Type != renderbatch.FrameAttribute {
				break
			}
			x.applyAttribute(el, attr)
		}
		if err := x.insertFrameRange(el, 0, next, end, depth+1); err != nil {
			return 0, err
		}
		return 1, nil

	case renderbatch.FrameText:
		if err := dom.InsertChildAt(parent, dom.CreateText(frame.Name), childIndex); err != nil {
			return 0, x.invalidFrame(frameIndex, err.Error())
		}
		return 1, nil

	case renderbatch.FrameComponent:
		if _, ok := x.r.components[frame.ComponentID]; ok {
			return 0, errors.New(errors.CodeDuplicateComponent).
				WithDetailf("renderer %d, component %d", x.r.id, frame.ComponentID)
		}
		container := dom.CreateElement(x.r.config.ComponentTag)
		if err := dom.InsertChildAt(parent, container, childIndex); err != nil {
			return 0, x.invalidFrame(frameIndex, err.Error())
		}
		x.r.components[frame.ComponentID] = &component{
			id:       frame.ComponentID,
			element:  container,
			handlers: make(map[int32]struct{}),
		}
		x.r.logger.Debug("child component registered", "component", frame.ComponentID, "parent", x.owner.id)
		return 1, nil

	case renderbatch.FrameAttribute:
		return 0, x.invalidFrame(frameIndex, "attribute frame outside an element")

	default:
		return 0, x.invalidFrame(frameIndex, "unknown frame type")
	}
}

// insertFrameRange inserts the sibling frames start..end (inclusive) into
// parent starting at childIndex.
func (x *editContext) insertFrameRange(parent *html.Node, childIndex int, start, end int32, depth int) error {
	for i := start; i <= end; {
		frame, err := x.frame(i)
		if err != nil {
			return err
		}
		n, err := x.insertFrame(parent, childIndex, i, frame, depth)
		if err != nil {
			return err
		}
		childIndex += n
		if frame.Type == renderbatch.FrameElement {
			i = frame.DescendantsEndIndex + 1
		} else {
			i++
		}
	}
	return nil
}

func (x *editContext) applyAttribute(el *html.Node, frame renderbatch.Frame) {
	if frame.EventHandlerID != 0 {
		x.r.bind(x.owner, el, frame.Name, frame.EventHandlerID)
		return
	}
	if strings.HasPrefix(strings.ToLower(frame.Name), "on") {
		x.r.unbindAttribute(el, frame.Name)
	}
	_ = dom.SetAttribute(el, frame.Name, frame.Value)
}

func (x *editContext) frame(index int32) (renderbatch.Frame, error) {
	f, err := renderbatch.ReadFrameAt(x.h, x.frames, index)
	if err != nil {
		return renderbatch.Frame{}, errors.New(errors.CodeMalformedBatch).
			WithDetailf("component %d, frame %d", x.owner.id, index).Wrap(err)
	}
	return f, nil
}

func (x *editContext) childElement(parent *html.Node, i int32, e renderbatch.Edit) (*html.Node, error) {
	el := dom.ChildAt(parent, int(e.SiblingIndex))
	if el == nil || el.Type != html.ElementNode {
		return nil, x.invalidEdit(i, e, "target is not an element")
	}
	return el, nil
}

func (x *editContext) invalidEdit(i int32, e renderbatch.Edit, reason string) error {
	return errors.New(errors.CodeInvalidEdit).
		WithDetailf("component %d, edit %d (%s, sibling %d): %s", x.owner.id, i, e.Type, e.SiblingIndex, reason)
}

func (x *editContext) invalidFrame(index int32, reason string) error {
	return errors.New(errors.CodeInvalidFrame).
		WithDetailf("component %d, frame %d: %s", x.owner.id, index, reason)
}
