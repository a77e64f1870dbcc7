package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotsearch/internal/models"
)

var _ list.Item = resultItem{}

// resultItem wraps [models.Item] to implement [list.Item].
type resultItem struct {
	index int
	item  models.Item
}

func (i resultItem) FilterValue() string { return i.item.Title }
func (i resultItem) Title() string       { return fmt.Sprintf("%d. %s", i.index+1, i.item.Title) }
func (i resultItem) Description() string { return i.item.Line() }

func toListItems(items []models.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = resultItem{index: i, item: it}
	}
	return out
}
