// Package config loads batchdom.json.
//
// The file is optional; every field has a default. A typical file:
//
//	{
//	  "runtime": {"componentTag": "blazor-component"},
//	  "log": {"level": "debug", "format": "json"},
//	  "metrics": {"namespace": "batchdom"},
//	  "preview": {"host": "localhost", "port": 7300, "interval": "500ms"},
//	  "capture": {"s3Region": "eu-west-1", "s3Endpoint": "http://localhost:9000"}
//	}
//
// Load looks for the file in a directory; LoadFile reads an explicit path.
// A configuration is validated after defaults are applied.
package config
