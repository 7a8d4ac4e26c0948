// Command dinephil simulates the dining philosophers.
//
// Philosophers sit around a table with one chopstick between each pair of
// neighbours. To eat, a philosopher must pick up the chopstick on its left
// and the one on its right together, under a single lock over all
// chopsticks. When either is taken it backs off and polls again; there is no
// queue, so nothing prevents starvation. The checkfair command measures it.
package main
