// Package lrc defines the shared types of the LRC scheme tooling: error codes, logging and
// retry helpers, configuration, and the scheme repository contract.
//
// A scheme descriptor such as "111s1222s2333s3eg" describes one stripe of a Local
// Reconstruction Code layout: data blocks tagged with their group digit, one local syndrome
// per group, one empty block and one or more global syndromes. The scheme package compiles
// a descriptor into a placement table and the emitter package renders that table as the
// lrc_config.c text consumed by the insane device-mapper target.
//
// Backends for the scheme repository live in subpackages: fs (CSV file), redis, cassandra
// and inmemory. The harness package drives the brute-force scheme search and throughput
// benchmarks, restapi exposes the compiler over HTTP, and the tools folder holds the
// command line entry points.
package lrc
