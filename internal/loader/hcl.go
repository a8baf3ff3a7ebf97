// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/tfctl/objdiff/internal/tree"
)

// parseHCL reads native HCL syntax. Attributes are evaluated as constant
// expressions, so references to variables or functions are parse errors.
// Blocks nest under their type and then each label:
//
//	resource "aws_s3_bucket" "logs" { bucket = "x" }
//
// becomes {"resource": {"aws_s3_bucket": {"logs": {"bucket": "x"}}}}. Repeated
// blocks with the same type and labels collect into a sequence.
func parseHCL(data []byte, filename string) (tree.Value, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return tree.Value{}, diags
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return tree.Value{}, fmt.Errorf("unexpected HCL body type %T", file.Body)
	}

	m, err := convertBody(body)
	if err != nil {
		return tree.Value{}, err
	}
	return tree.Map(m), nil
}

// bodyItem is an attribute or block with its position in the source.
type bodyItem struct {
	offset int
	attr   *hclsyntax.Attribute
	block  *hclsyntax.Block
}

func convertBody(body *hclsyntax.Body) (*tree.Mapping, error) {
	items := make([]bodyItem, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, bodyItem{offset: attr.SrcRange.Start.Byte, attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, bodyItem{offset: block.TypeRange.Start.Byte, block: block})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	m := tree.NewMapping()
	for _, item := range items {
		if item.attr != nil {
			val, diags := item.attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, diags
			}
			v, err := fromCty(val)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", item.attr.Name, err)
			}
			m.Set(item.attr.Name, v)
			continue
		}

		if err := addBlock(m, item.block); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func addBlock(m *tree.Mapping, block *hclsyntax.Block) error {
	child, err := convertBody(block.Body)
	if err != nil {
		return err
	}

	keys := append([]string{block.Type}, block.Labels...)
	parent := m
	for _, k := range keys[:len(keys)-1] {
		existing, ok := parent.Get(k)
		if !ok {
			next := tree.NewMapping()
			parent.Set(k, tree.Map(next))
			parent = next
			continue
		}
		if existing.Kind() != tree.KindMapping {
			return fmt.Errorf("block %q at line %d conflicts with an existing %s", block.Type, block.TypeRange.Start.Line, existing.Kind())
		}
		parent = existing.Mapping()
	}

	last := keys[len(keys)-1]
	existing, ok := parent.Get(last)
	switch {
	case !ok:
		parent.Set(last, tree.Map(child))
	case existing.Kind() == tree.KindSequence:
		existing.Sequence().Append(tree.Map(child))
	default:
		parent.Set(last, tree.Seq(tree.NewSequence(existing, tree.Map(child))))
	}
	return nil
}

// fromCty converts a known cty value. Object attributes come out in cty's
// sorted order since cty does not keep source order.
func fromCty(val cty.Value) (tree.Value, error) {
	if val.IsNull() {
		return tree.Null(), nil
	}
	if !val.IsKnown() {
		return tree.Undefined(), nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return tree.String(val.AsString()), nil
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return tree.Number(f), nil
	case ty == cty.Bool:
		return tree.Bool(val.True()), nil
	case ty.IsObjectType() || ty.IsMapType():
		m := tree.NewMapping()
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			child, err := fromCty(v)
			if err != nil {
				return tree.Value{}, err
			}
			m.Set(k.AsString(), child)
		}
		return tree.Map(m), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		s := tree.NewSequence()
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			child, err := fromCty(v)
			if err != nil {
				return tree.Value{}, err
			}
			s.Append(child)
		}
		return tree.Seq(s), nil
	}
	return tree.Value{}, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
