package patchbay

// Version is stamped by the release workflow; source builds carry the
// development marker.
var Version = "0.3.0-dev"
