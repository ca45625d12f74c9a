// File: pkg/merge/tree.go
package merge

import (
	"sort"
	"strings"
)

// treeNode is one directory or file in the listing built from merged entries.
type treeNode struct {
	name     string
	isDir    bool
	children map[string]*treeNode
}

// GenerateTree renders the relative paths of entries as an indented tree
// under rootName, directories first, then files, each alphabetically.
func GenerateTree(rootName string, entries []FileEntry) string {
	root := &treeNode{name: rootName, isDir: true, children: map[string]*treeNode{}}
	for _, entry := range entries {
		parts := strings.Split(entry.RelPath, "/")
		node := root
		for i, part := range parts {
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{name: part, isDir: i < len(parts)-1, children: map[string]*treeNode{}}
				node.children[part] = child
			}
			node = child
		}
	}

	var treeBuilder strings.Builder
	treeBuilder.WriteString(rootName + "/\n")
	writeTreeRecursively(&treeBuilder, root, "")
	return treeBuilder.String()
}

func writeTreeRecursively(b *strings.Builder, node *treeNode, prefix string) {
	children := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		children = append(children, child)
	}

	// Sort entries: directories first, then files, alphabetically
	sort.Slice(children, func(i, j int) bool {
		if children[i].isDir != children[j].isDir {
			return children[i].isDir
		}
		return strings.ToLower(children[i].name) < strings.ToLower(children[j].name)
	})

	for i, child := range children {
		connector := "├── "
		extension := "│   "
		if i == len(children)-1 {
			connector = "└── "
			extension = "    "
		}

		b.WriteString(prefix + connector + child.name)
		if child.isDir {
			b.WriteString("/\n")
			writeTreeRecursively(b, child, prefix+extension)
			continue
		}
		b.WriteString("\n")
	}
}
