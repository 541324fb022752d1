package gridsearch_test

import (
	"context"
	"fmt"

	"github.com/pdrpinto/gridsearch"
)

func ExampleSolve() {
	grid, err := gridsearch.NewGrid([][]bool{
		{false, false, false},
		{false, true, false},
		{false, false, false},
	})
	if err != nil {
		panic(err)
	}

	res, err := gridsearch.Solve(context.Background(), grid,
		gridsearch.State{Row: 0, Col: 0}, gridsearch.State{Row: 2, Col: 2}, gridsearch.BreadthFirst)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Path)
	fmt.Println(res.Actions)
	fmt.Println(res.ExploredCount)
	// Output:
	// [(0, 0) (1, 0) (2, 0) (2, 1) (2, 2)]
	// [down down right right]
	// 8
}
