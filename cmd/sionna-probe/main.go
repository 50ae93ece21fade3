// Copyright (c) 2025-2026, The ns3sionna Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// sionna-probe connects to a running Sionna oracle server, registers a small
// node roster, and issues a series of channel state queries over simulated
// time. It is the manual smoke test for a deployed oracle: it prints the
// loss, delay and CSI size per query and the cache counters at the end.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonlingoogle/go-simplelogger"

	"github.com/tkn-tub/ns3sionna/csicache"
	"github.com/tkn-tub/ns3sionna/mobility"
	"github.com/tkn-tub/ns3sionna/oracle"
	"github.com/tkn-tub/ns3sionna/prng"
	"github.com/tkn-tub/ns3sionna/types"
)

type MainArgs struct {
	ConfigFile string
	Scene      string
	Endpoint   string
	Seed       int64
	LogLevel   string
	NumNodes   int
	NumQueries int
	StepNs     uint64
	TxPowerDbm float64
	NoCache    bool
	NoOptimize bool
}

var (
	args MainArgs
)

func parseArgs() {
	flag.StringVar(&args.ConfigFile, "config", "", "load the scenario from a YAML file")
	flag.StringVar(&args.Scene, "scene", "", "scene file for the oracle to load (overrides the scenario file)")
	flag.StringVar(&args.Endpoint, "endpoint", "", "oracle server address host:port (overrides the scenario file)")
	flag.Int64Var(&args.Seed, "seed", 0, "root PRNG seed; 0 picks a time-based seed")
	flag.StringVar(&args.LogLevel, "log", "info", "set logging level: debug, info, warn, error.")
	flag.IntVar(&args.NumNodes, "nodes", 2, "number of nodes to register, placed on a line 10 m apart")
	flag.IntVar(&args.NumQueries, "queries", 10, "number of channel state queries to issue")
	flag.Uint64Var(&args.StepNs, "step", 100000000, "simulated time advance per query, in ns")
	flag.Float64Var(&args.TxPowerDbm, "txpower", 20.0, "transmit power assumed for loss queries, in dBm")
	flag.BoolVar(&args.NoCache, "no-cache", false, "query the oracle on every lookup")
	flag.BoolVar(&args.NoOptimize, "no-optimize", false, "disable the below-noise-floor fast path")
	flag.Parse()
}

func loadConfig() oracle.Config {
	cfg := oracle.DefaultConfig()
	if args.ConfigFile != "" {
		var err error
		cfg, err = oracle.LoadConfig(args.ConfigFile)
		simplelogger.FatalIfError(err)
	}
	if args.Scene != "" {
		cfg.SceneFile = args.Scene
	}
	if args.Endpoint != "" {
		cfg.Endpoint = args.Endpoint
	}
	if cfg.Seed == 0 {
		cfg.Seed = prng.NewOracleSeed()
	}
	if args.NoCache {
		cfg.Caching = false
	}
	if args.NoOptimize {
		cfg.Optimize = false
	}
	return cfg
}

func buildRoster() *mobility.Registry {
	reg := mobility.NewRegistry()
	for i := 0; i < args.NumNodes; i++ {
		pos := types.Vector3{X: float64(i) * 10.0, Y: 0, Z: 1.5}
		node := mobility.NewConstantPositionNode(types.NodeId(i+1), pos)
		err := reg.Add(node)
		simplelogger.FatalIfError(err)
	}
	return reg
}

func main() {
	parseArgs()
	simplelogger.SetLevel(simplelogger.ParseLevel(args.LogLevel))

	if args.NumNodes < 2 {
		simplelogger.Fatalf("need at least 2 nodes, got %d", args.NumNodes)
	}

	prng.Init(args.Seed)
	cfg := loadConfig()

	session, err := oracle.Dial(cfg)
	simplelogger.FatalIfError(err)

	reg := buildRoster()
	err = session.Start(reg)
	simplelogger.FatalIfError(err)
	simplelogger.Infof("session started: scene %s, %d nodes, noise floor %.1f dBm",
		cfg.SceneFile, reg.Len(), session.NoiseFloorDbm())

	handleSignals(session)

	cache := csicache.NewForSession(session)
	nodes := reg.Nodes()
	a, b := nodes[0], nodes[1]

	now := types.Timestamp(0)
	for i := 0; i < args.NumQueries; i++ {
		loss, err := cache.GetLoss(a, b, now, args.TxPowerDbm)
		simplelogger.FatalIfError(err)
		delay, err := cache.GetDelay(a, b, now)
		simplelogger.FatalIfError(err)
		csi, err := cache.GetCSI(a, b, now)
		simplelogger.FatalIfError(err)

		fmt.Printf("t=%12d ns  lnk %d-%d  loss %7.2f dB  delay %8v  csi %d subcarriers\n",
			now, a.Id(), b.Id(), loss, delay, len(csi))
		now += types.Timestamp(args.StepNs)
	}

	fmt.Println(cache.Stats())

	err = session.Close()
	simplelogger.FatalIfError(err)
}

func handleSignals(session *oracle.Session) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-c
		simplelogger.Infof("signal received: %v", sig)
		_ = session.Close()
		os.Exit(1)
	}()
}
