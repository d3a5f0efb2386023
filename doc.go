/*
Package itnav is an interactive IT troubleshooting guide built on a decision tree.

End users pick a category and answer yes/no questions or report whether a
suggested action resolved their problem, until they reach an end node.
Administrators edit the tree, the categories and a small news feed through
a console gated by a shared secret. Every edit happens on a draft that is
validated for dangling references, self-loops and orphans before it is
committed.

# Usage

	ctx := context.Background()
	guide, err := itnav.New(ctx, memory.NewStore())
	if err != nil {
		log.Fatal(err)
	}

	walk, err := guide.Select(ctx, "print")
	if err != nil {
		log.Fatal(err)
	}
	walk, err = guide.Choose(ctx, walk, domain.ActionYes)
	if err != nil {
		log.Fatal(err)
	}
	view := guide.Render(ctx, walk)
	fmt.Println(view.Node.Title, view.Actions)

Storage is pluggable through ports.Store: in-memory, local JSON files,
Redis and loam document repositories ship with the module. When nothing is
stored yet the built-in dataset is used.
*/
package itnav
