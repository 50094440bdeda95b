// Package manifest turns scanned routes into a serialisable route manifest
// and publishes it to an S3-compatible object store.
//
// A manifest lists every leaf of an app directory in matching order:
//
//	{
//	  "version": 1,
//	  "routes": [
//	    {
//	      "id": "9c1f0d4e2a7b3c58",
//	      "pathname": "/blog/[id]",
//	      "pattern": "/blog/:id",
//	      "type": "Page",
//	      "file": "blog/[id]/page.go",
//	      "params": ["id"],
//	      "page": [{"Static": "blog"}, {"Dynamic": "id"}, {"PageType": "Page"}],
//	      "path": [{"Static": "blog"}, {"Dynamic": "id"}]
//	    }
//	  ]
//	}
//
// Decoding re-checks the segment ordering rules, so a manifest read back
// from storage can be turned into routes for a router.Matcher without
// rescanning.
package manifest
