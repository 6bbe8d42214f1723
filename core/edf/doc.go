// Package edf simulates an earliest-deadline-first scheduler with an
// admission test, context-switch accounting and discrete voltage selection.
//
// A run advances a logical clock one tick at a time. Each tick runs three
// phases in order, each taking the scheduler State by value and returning
// the updated one:
//
//	Admit          moves arrivals that pass the utilization test to the ready queue
//	AccountContext charges context-switch ticks when the ready-queue head changes
//	Dispatch       spends the tick on a context switch, idling, or one unit of the head task
//
// Simulator drives the phases and collects the trace into a Report.
package edf
