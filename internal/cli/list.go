package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stormlightlabs/docsift/internal/index"
)

var (
	listCategory string
	listTree     bool
	listCount    bool
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [prefix]",
		Short: "List indexed document paths",
		Long: `List the paths of every document in the index.

Paths can be filtered by category or path prefix and displayed as a tree.`,
		Example: `  docsift list
  docsift list -c guides
  docsift list --tree orders/
  docsift list --count`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}

	cmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	cmd.Flags().BoolVar(&listTree, "tree", false, "Display as tree structure")
	cmd.Flags().BoolVar(&listCount, "count", false, "Show only count of documents")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}

	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	paths := filterPaths(svc.Documents(), strings.ToLower(listCategory), prefix)

	if listCount {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", len(paths))
		return nil
	}

	if listTree {
		printTree(cmd.OutOrStdout(), paths)
		return nil
	}

	for _, path := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}

	return nil
}

func filterPaths(docs []*index.Document, category, prefix string) []string {
	var paths []string
	for _, doc := range docs {
		if category != "" && doc.Category != category {
			continue
		}
		if !strings.HasPrefix(doc.Path, prefix) {
			continue
		}
		paths = append(paths, doc.Path)
	}
	sort.Strings(paths)
	return paths
}

type treeNode struct {
	name     string
	children []*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	c := &treeNode{name: name}
	n.children = append(n.children, c)
	return c
}

func printTree(w io.Writer, paths []string) {
	root := &treeNode{}
	for _, path := range paths {
		current := root
		for _, part := range strings.Split(path, "/") {
			if part != "" {
				current = current.child(part)
			}
		}
	}

	sortTree(root)
	for _, child := range root.children {
		fmt.Fprintln(w, child.name)
		printNode(w, child, "")
	}
}

func sortTree(n *treeNode) {
	sort.Slice(n.children, func(i, j int) bool {
		return n.children[i].name < n.children[j].name
	})
	for _, c := range n.children {
		sortTree(c)
	}
}

func printNode(w io.Writer, node *treeNode, prefix string) {
	for i, child := range node.children {
		connector, next := "├── ", "│   "
		if i == len(node.children)-1 {
			connector, next = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, child.name)
		printNode(w, child, prefix+next)
	}
}
