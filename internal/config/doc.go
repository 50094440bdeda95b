// Package config provides configuration parsing for approute projects.
//
// The configuration is stored in approute.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "app": {
//	    "dir": "app",
//	    "extensions": [".go"]
//	  },
//	  "dev": {
//	    "host": "localhost",
//	    "port": 3100,
//	    "interval": "1s"
//	  },
//	  "publish": {
//	    "bucket": "my-routes",
//	    "prefix": "sites/blog/",
//	    "region": "eu-west-1",
//	    "gzip": true
//	  },
//	  "metrics": {
//	    "namespace": "approute"
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
//	fmt.Println("Routes:", cfg.AppPath())
package config
