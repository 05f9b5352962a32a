// Command siloprofile drives a query/mutation workload under pprof so
// allocation and CPU hotspots in the archetype/query path can be inspected
// with `go tool pprof`.
//
// Profiling:
//
//	go build ./cmd/siloprofile
//	go tool pprof -http=":8000" -nodefraction=0.001 ./siloprofile mem.pprof
package main

import (
	"github.com/pkg/profile"
	"github.com/silo-ecs/silo"
)

type position struct {
	X float64
	Y float64
}

type velocity struct {
	X float64
	Y float64
}

func main() {
	rounds := 50
	iters := 10000
	entities := 1000

	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w := silo.NewWorld()
		pos := silo.RegisterComponent[position](w)
		vel := silo.RegisterComponent[velocity](w)

		q, err := silo.NewQuery(w, silo.And(silo.Write(pos), vel))
		if err != nil {
			panic(err)
		}

		for range iters {
			spawned := w.SpawnN(numEntities, pos.With(position{}), vel.With(velocity{X: 1, Y: 1}))

			cursor := q.Iter(w)
			for cursor.Next() {
				p := pos.GetFromCursor(cursor)
				v := vel.GetFromCursor(cursor)
				p.X += v.X
				p.Y += v.Y
			}

			for _, e := range spawned {
				w.Despawn(e)
			}
			w.ClearTrackers()
		}
	}
}
