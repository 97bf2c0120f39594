// Package realtime runs the game engine on a host computer.
//
// On the board the main loop spins as fast as the CPU allows and a hardware
// timer interrupts it to step the tune or blink renderer. The host runtime
// reproduces both contexts with goroutines:
//   - the main loop wakes every LoopInterval and runs TicksPerWake engine
//     ticks, so one engine tick stays far shorter than a wall-clock second
//   - a Timer acts as the tick source, firing the dispatcher at the period the
//     dispatcher last programmed, scaled by TimerUnit
//
// # Button Edges
//
// Press queues an edge instead of touching the engine directly. At each wake
// the queued edges are delivered before the engine ticks, ordered by:
//  1. Priority (higher priority first)
//  2. Sequence number (FIFO for same priority)
//
// Given the same sequence of Press calls between two wakes, the engine sees
// the same counters, whatever goroutine the calls came from.
//
// # Example Usage
//
//	timer := realtime.NewTimer(cfg.TimerUnit)
//	disp := dispatch.New(timer, bindings)
//	engine, _ := reflexpong.New(hw)
//	_ = engine.Init()
//	rt := realtime.NewRuntime(engine, latch, timer, disp, realtime.Config{
//		LoopInterval: 10 * time.Millisecond,
//		TicksPerWake: 800,
//	})
//	rt.Start(ctx)
//	rt.Press(reflexpong.Player1)
//
// A tick that panics is recovered and logged; the loop keeps running.
package realtime
