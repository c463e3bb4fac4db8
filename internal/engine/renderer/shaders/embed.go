// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// ClothVertexShader transforms cloth vertices and forwards the vertex attribute.
//
//go:embed cloth.vert
var ClothVertexShader string

// ClothFragmentShader shades by normal or passes the vertex colour through.
//
//go:embed cloth.frag
var ClothFragmentShader string
