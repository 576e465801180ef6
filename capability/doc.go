// Package capability holds the analysis capabilities an application has
// loaded, keyed by name and retrieved through typed keys.
//
//	var Extractor = capability.NewKey[*claims.Extractor]("claim-extractor")
//
//	reg := capability.NewRegistry()
//	_ = capability.Register(reg, Extractor, ext)
//	if ext, ok := capability.Lookup(reg, Extractor); ok {
//	    ext.Extract(transcript)
//	}
package capability
