// Package config provides configuration parsing for reactor projects.
//
// The configuration is stored in reactor.json, or reactor.yaml, at the
// project root. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "reconciler": {
//	    "skipEqualHostUpdates": true,
//	    "strictHooks": false,
//	    "dispatchBuffer": 256
//	  },
//	  "devtools": {
//	    "enabled": true,
//	    "addr": "localhost:7070"
//	  },
//	  "snapshot": {
//	    "driver": "bolt",
//	    "dir": ".reactor/snapshots"
//	  },
//	  "log": {
//	    "level": "debug"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := reconciler.New(renderer, reconciler.WithConfig(cfg.ReconcilerConfig()))
package config
