package store_test

import (
	"fmt"

	"github.com/grovetools/kvstore/chain"
	"github.com/grovetools/kvstore/store"
)

func Example() {
	s, err := store.New(map[string]any{
		"todos": []any{},
	}, store.WithHistoryLimit(50))
	if err != nil {
		panic(err)
	}
	defer s.Close()

	todos, _ := s.Collection("todos")
	todos.Push(map[string]any{"title": "write docs", "done": false})
	todos.Push(map[string]any{"title": "ship it", "done": false})

	open, _ := s.Query("todos", chain.Filter(chain.Matches(map[string]any{"done": false})), chain.Pluck("title"))
	fmt.Println(open)

	_ = s.Undo("todos")
	fmt.Println(todos.Len())

	_ = s.Redo("todos")
	fmt.Println(todos.Len())
	// Output:
	// [write docs ship it]
	// 1
	// 2
}

func ExampleStore_RunInAction() {
	s, _ := store.New(map[string]any{
		"todos": []any{},
		"stats": store.AsRecord(map[string]any{"added": 0}),
	})
	defer s.Close()

	todos, _ := s.Sequence("todos")
	stats, _ := s.Record("stats")

	s.RunInAction("add todo", func() {
		todos.Push("write docs")
		stats.SetField("added", 1)
	})

	_ = s.Undo("add todo")
	fmt.Println(s.Contents())
	// Output:
	// map[stats:map[added:0] todos:[]]
}
