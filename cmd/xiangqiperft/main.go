// Command xiangqiperft is a debug driver over the xiangqi package: it
// parses a FEN, runs perft to a requested depth and prints per-root-move
// split counts, grounded on ChizhovVadim-CounterGo/cmd/counter/main.go's
// flag/logger setup and common/perft_test.go's Perft shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/ChizhovVadim/XiangqiGo/internal/workerpool"
	"github.com/ChizhovVadim/XiangqiGo/xiangqi"
)

/*
XiangqiGo Copyright (C) 2017-2023 Vadim Chizhov
This program is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, either version 3 of the License, or (at your option) any later version.
This program is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.
You should have received a copy of the GNU General Public License along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

var (
	flgFen     string
	flgDepth   int
	flgWorkers int
)

func main() {
	flag.StringVar(&flgFen, "fen", xiangqi.StartFEN, "position to search, in FEN")
	flag.IntVar(&flgDepth, "depth", 4, "perft depth")
	flag.IntVar(&flgWorkers, "workers", runtime.NumCPU(), "degree of parallelism for the root split")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	var pos xiangqi.Position
	var st xiangqi.StateInfo
	if err := pos.Set(flgFen, &st); err != nil {
		logger.Fatalln("bad position:", err)
	}

	logger.Println("fen", flgFen, "depth", flgDepth, "workers", flgWorkers)

	start := time.Now()
	nodes, err := splitPerft(context.Background(), flgFen, flgDepth, flgWorkers, logger)
	if err != nil {
		logger.Fatalln(err)
	}
	elapsed := time.Since(start)

	fmt.Printf("nodes %d time %s nps %.0f\n", nodes, elapsed,
		float64(nodes)/elapsed.Seconds())
}

// splitPerft runs perft at depth across the root moves, spreading them over
// the given number of workers via internal/workerpool, and logs the
// per-move split before returning the total.
func splitPerft(ctx context.Context, fen string, depth, workers int, logger *log.Logger) (uint64, error) {
	var root xiangqi.Position
	var rootSt xiangqi.StateInfo
	if err := root.Set(fen, &rootSt); err != nil {
		return 0, err
	}

	var list xiangqi.MoveList
	xiangqi.Generate(&root, xiangqi.Legal, &list)

	counts := make([]uint64, list.Len())
	moves := make([]xiangqi.Move, list.Len())
	for i := 0; i < list.Len(); i++ {
		moves[i] = list.At(i)
	}

	pool := workerpool.New(workers)
	err := pool.Distribute(ctx, fen, len(moves), func(_ context.Context, _, idx int, pos *xiangqi.Position) error {
		var st xiangqi.StateInfo
		pos.DoMove(moves[idx], &st)
		if depth > 1 {
			counts[idx] = perft(pos, depth-1)
		} else {
			counts[idx] = 1
		}
		pos.UndoMove(moves[idx])
		return nil
	})
	if err != nil {
		return 0, err
	}

	var total uint64
	for i, m := range moves {
		logger.Printf("%s: %d", m, counts[i])
		total += counts[i]
	}
	return total, nil
}

func perft(p *xiangqi.Position, depth int) uint64 {
	var list xiangqi.MoveList
	xiangqi.Generate(p, xiangqi.Legal, &list)

	if depth == 1 {
		return uint64(list.Len())
	}

	var nodes uint64
	var st xiangqi.StateInfo
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		p.DoMove(m, &st)
		nodes += perft(p, depth-1)
		p.UndoMove(m)
	}
	return nodes
}
