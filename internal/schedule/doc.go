// Package schedule holds the constraint model and the Phase type.
//
// Tasks are registered into a Phase as TaskConfig values, built with
// chained calls:
//
//	p := schedule.New("Update")
//	p.AddTasks(
//	    schedule.Func("read_input", readInput).InSet("input"),
//	    schedule.Func("move", move).After("input"),
//	)
//	p.AddChain(schedule.Func("a", a), schedule.Func("b", b))
//	p.ConfigureSets(schedule.ConfigureSet("input").RunIf(focused))
//
// Ordering targets are names. A name matches every registration of a task
// with that name and every member of a set with that label, as of the time
// the phase is compiled.
//
// A Phase compiles lazily: every structural change marks it dirty and the
// next Compile or Run rebuilds the order through package dag. Compilation
// also looks for ambiguous pairs, tasks with no path between them, and
// reports them according to the phase's AmbiguityPolicy.
package schedule
