// Package fincast is a personal-finance forecasting core. It expands
// recurring transactions into dated occurrences, projects account balances
// period by period over a scenario window, reduces savings and pay-down
// goals to monthly contribution requirements, and solves those
// requirements under movement and floor constraints with a linear program.
//
// The package is pure computation: it never touches the filesystem or the
// network, and every entry point takes its scenario by value or clones it
// before mutating. The LP capability is injected through [LPProvider] so
// hosts choose their own solver backend; [lpsolve.New] provides one built
// on gonum's simplex.
package fincast
