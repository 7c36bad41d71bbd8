package categories

import (
	"github.com/marketa-app/admin-backend/pkg/db/models"
)

// ExclusionClosure expands the directly-excluded id set to every
// descendant. The adjacency map is built from one full scan; traversal
// keeps a visited set so a corrupted parent cycle cannot loop forever.
func ExclusionClosure(all []models.Category, directIDs []int64) map[int64]bool {
	children := make(map[int64][]int64, len(all))
	known := make(map[int64]bool, len(all))
	for _, category := range all {
		known[category.ID] = true
		if category.ParentID == nil || *category.ParentID == 0 {
			continue
		}
		parent := *category.ParentID
		children[parent] = append(children[parent], category.ID)
	}

	closure := make(map[int64]bool, len(directIDs))
	queue := make([]int64, 0, len(directIDs))
	for _, id := range directIDs {
		if !known[id] || closure[id] {
			continue
		}
		closure[id] = true
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if closure[child] {
				continue
			}
			closure[child] = true
			queue = append(queue, child)
		}
	}
	return closure
}

// isDescendant walks up from candidate's parent pointer and reports
// whether ancestor appears on the path. Visited guard stops on cycles.
func isDescendant(byID map[int64]models.Category, candidate, ancestor int64) bool {
	visited := make(map[int64]bool)
	current := candidate
	for {
		node, ok := byID[current]
		if !ok || node.ParentID == nil || *node.ParentID == 0 {
			return false
		}
		parent := *node.ParentID
		if parent == ancestor {
			return true
		}
		if visited[parent] {
			return false
		}
		visited[parent] = true
		current = parent
	}
}
