// Package config defines the format-agnostic description of what the
// application should evaluate: the runs (one input each), where results are
// recorded, and where they are published. Concrete loaders, such as the HCL
// one in package hclconfig, translate their own syntax into a Model.
package config
