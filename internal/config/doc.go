// Package config loads weave configuration.
//
// Configuration lives in weave.json. Every key can be overridden by an
// environment variable: the key upper-cased, dots replaced by underscores
// and prefixed with WEAVE_ (inspector.port becomes WEAVE_INSPECTOR_PORT).
// Defaults apply when the file is absent.
//
// # Configuration File Structure
//
//	{
//	  "log": {"level": "info", "format": "text"},
//	  "inspector": {"host": "localhost", "port": 7070},
//	  "transport": {"tries": 0, "timeout": "3s"},
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "bucket": "",
//	    "prefix": "weave/",
//	    "region": "us-east-1"
//	  },
//	  "tracing": {"enabled": false}
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.InspectorAddress())
package config
