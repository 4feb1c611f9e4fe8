// Package histogram is the boundary between the wire codec and the histogram engine.
//
// The codec never computes bucket indices or percentiles itself. It only needs the
// construction parameters, the total count and the ordered counts array of a histogram,
// which is what the Histogram and Mutable interfaces expose. HDR adapts
// github.com/HdrHistogram/hdrhistogram-go to both interfaces, and DefaultFactory builds
// it from a decoded header.
package histogram
