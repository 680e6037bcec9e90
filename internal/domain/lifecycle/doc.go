// Package lifecycle declares the state machines that gate every state-bearing
// entity in the kernel. Each machine is a typed state enumeration, a typed
// event enumeration and a fsm.Machine built once at package initialization.
package lifecycle
