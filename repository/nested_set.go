package repository

import (
	"context"
	"fmt"

	"github.com/yeremiapane/dining-area/models"
	"gorm.io/gorm"
)

// NestedSet menjaga kolom nest_left/nest_right dining_tables tetap sesuai
// dengan parent_id setelah penulisan langsung (misal update quiet).
type NestedSet struct {
	DB *gorm.DB
}

func NewNestedSet(db *gorm.DB) *NestedSet {
	return &NestedSet{DB: db}
}

type treeNode struct {
	id        uint
	parentID  *uint
	left      int
	right     int
	newParent *uint
	dirty     bool
	children  []*treeNode
}

// FixTree membangun ulang index tree untuk seluruh dining_tables. Parent
// yang menunjuk ke baris yang tidak ada (atau membentuk siklus) dilepas
// sehingga meja kembali menjadi root. Aman dipanggil berulang kali.
func (n *NestedSet) FixTree(ctx context.Context, quiet bool) error {
	db := n.DB.WithContext(ctx)

	var rows []models.DiningTable
	if err := db.Select("id", "parent_id", "nest_left", "nest_right").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("load tree: %w", err)
	}

	nodes := make(map[uint]*treeNode, len(rows))
	ordered := make([]*treeNode, 0, len(rows))
	for _, row := range rows {
		node := &treeNode{id: row.ID, parentID: row.ParentID, left: row.NestLeft, right: row.NestRight, newParent: row.ParentID}
		nodes[row.ID] = node
		ordered = append(ordered, node)
	}

	var roots []*treeNode
	for _, node := range ordered {
		var parent *treeNode
		if node.parentID != nil && *node.parentID != node.id {
			parent = nodes[*node.parentID]
		}
		if parent == nil {
			if node.parentID != nil {
				node.newParent = nil
			}
			roots = append(roots, node)
			continue
		}
		parent.children = append(parent.children, node)
	}

	counter := 1
	visited := make(map[uint]bool, len(ordered))
	for _, root := range roots {
		counter = assign(root, counter, visited)
	}

	// node yang tidak terjangkau dari root berada dalam siklus
	for _, node := range ordered {
		if visited[node.id] {
			continue
		}
		node.newParent = nil
		node.children = removeVisited(node.children, visited)
		counter = assign(node, counter, visited)
	}

	if quiet {
		db = db.Session(&gorm.Session{SkipHooks: true})
	}

	for _, node := range ordered {
		if !node.dirty && samePointer(node.parentID, node.newParent) {
			continue
		}
		err := db.Model(&models.DiningTable{ID: node.id}).
			Updates(map[string]interface{}{
				"parent_id":  node.newParent,
				"nest_left":  node.left,
				"nest_right": node.right,
			}).Error
		if err != nil {
			return fmt.Errorf("update tree node %d: %w", node.id, err)
		}
	}
	return nil
}

func assign(node *treeNode, counter int, visited map[uint]bool) int {
	visited[node.id] = true
	if node.left != counter {
		node.left, node.dirty = counter, true
	}
	counter++

	for _, child := range node.children {
		if visited[child.id] {
			continue
		}
		counter = assign(child, counter, visited)
	}

	if node.right != counter {
		node.right, node.dirty = counter, true
	}
	return counter + 1
}

func removeVisited(children []*treeNode, visited map[uint]bool) []*treeNode {
	out := children[:0]
	for _, c := range children {
		if !visited[c.id] {
			out = append(out, c)
		}
	}
	return out
}

func samePointer(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
