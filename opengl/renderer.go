package opengl

import (
	"fmt"
	"log/slog"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"orrery/core"
	"orrery/math"
	"orrery/renderer"
)

// Renderer is the OpenGL rendering backend. It owns one shader program and
// one vertex array holding the whole scene.
type Renderer struct {
	program    uint32
	vao        uint32
	vbos       [3]uint32
	clearColor math.Vec4
	uniforms   uniformLocations
}

type uniformLocations struct {
	modelView  int32
	projection int32
	ambient    int32
	diffuse    int32
	specular   int32
	light      int32
	shininess  int32
}

// vertex shader: eye-space position and normal for per-fragment Phong
const vertSrc = `
#version 410 core
in vec4 vPosition;
in vec3 vNormal;
in vec4 vColor;

uniform mat4 modelViewMatrix;
uniform mat4 projectionMatrix;
uniform vec4 lightPosition;

out vec3 fN;
out vec3 fE;
out vec3 fL;
out vec4 fColor;

void main() {
    vec3 pos = (modelViewMatrix * vPosition).xyz;
    vec3 light = (modelViewMatrix * lightPosition).xyz;

    fN = mat3(modelViewMatrix) * vNormal;
    fE = -pos;
    fL = light - pos;
    fColor = vColor;

    gl_Position = projectionMatrix * vec4(pos, 1.0);
}
` + "\x00"

// fragment shader: ambient + diffuse + specular, tinted by the vertex colour
const fragSrc = `
#version 410 core
in vec3 fN;
in vec3 fE;
in vec3 fL;
in vec4 fColor;

uniform vec4 ambientProduct;
uniform vec4 diffuseProduct;
uniform vec4 specularProduct;
uniform float shininess;

out vec4 outColor;

void main() {
    vec3 N = normalize(fN);
    vec3 E = normalize(fE);
    vec3 L = normalize(fL);
    vec3 H = normalize(L + E);

    vec4 ambient = ambientProduct;
    float kd = max(dot(L, N), 0.0);
    vec4 diffuse = kd * diffuseProduct;
    float ks = pow(max(dot(N, H), 0.0), shininess);
    vec4 specular = ks * specularProduct;
    if (dot(L, N) < 0.0) {
        specular = vec4(0.0, 0.0, 0.0, 1.0);
    }

    vec4 lit = (ambient + diffuse + specular) * fColor;
    outColor = vec4(lit.rgb, 1.0);
}
` + "\x00"

// NewRenderer initialises OpenGL with the given clear colour.
// Must be called after the GLFW window context is made current.
func NewRenderer(clearColor math.Vec4, logger *slog.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, &core.InitializationError{Stage: "opengl", Err: err}
	}
	if logger == nil {
		logger = slog.Default()
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	logger.Info("opengl ready", "version", version)

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	r := &Renderer{
		program:    prog,
		clearColor: clearColor,
		uniforms: uniformLocations{
			modelView:  uniform(prog, "modelViewMatrix"),
			projection: uniform(prog, "projectionMatrix"),
			ambient:    uniform(prog, "ambientProduct"),
			diffuse:    uniform(prog, "diffuseProduct"),
			specular:   uniform(prog, "specularProduct"),
			light:      uniform(prog, "lightPosition"),
			shininess:  uniform(prog, "shininess"),
		},
	}
	gl.UseProgram(prog)
	return r, nil
}

var _ renderer.Backend = (*Renderer)(nil)

// Upload creates one buffer per attribute and binds them to the shader's
// named inputs.
func (r *Renderer) Upload(positions, normals, colors []float32) error {
	if len(positions) == 0 {
		return fmt.Errorf("upload: empty position buffer")
	}
	if r.vao != 0 {
		r.release()
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(int32(len(r.vbos)), &r.vbos[0])

	attribs := []struct {
		name string
		size int32
		data []float32
	}{
		{"vPosition", 4, positions},
		{"vNormal", 3, normals},
		{"vColor", 4, colors},
	}
	for i, a := range attribs {
		gl.BindBuffer(gl.ARRAY_BUFFER, r.vbos[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(a.data)*4, gl.Ptr(a.data), gl.STATIC_DRAW)

		loc := gl.GetAttribLocation(r.program, gl.Str(a.name+"\x00"))
		if loc < 0 {
			// Unused attributes are optimised out by the driver.
			continue
		}
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), a.size, gl.FLOAT, false, 0, gl.PtrOffset(0))
	}

	gl.BindVertexArray(0)
	return nil
}

// Viewport resizes the OpenGL viewport.
func (r *Renderer) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears colour and depth.
func (r *Renderer) Clear() {
	c := r.clearColor
	gl.ClearColor(c.X, c.Y, c.Z, c.W)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetUniforms pushes the per-frame matrices and lighting products.
// Matrices are already column-major, so transpose=false.
func (r *Renderer) SetUniforms(u renderer.Uniforms) {
	loc := r.uniforms
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(loc.modelView, 1, false, &u.ModelView[0])
	gl.UniformMatrix4fv(loc.projection, 1, false, &u.Projection[0])
	gl.Uniform4fv(loc.ambient, 1, &u.Ambient[0])
	gl.Uniform4fv(loc.diffuse, 1, &u.Diffuse[0])
	gl.Uniform4fv(loc.specular, 1, &u.Specular[0])
	gl.Uniform4fv(loc.light, 1, &u.LightPosition[0])
	gl.Uniform1f(loc.shininess, u.Shininess)
}

// Draw issues a single triangle draw over the uploaded buffers.
func (r *Renderer) Draw(vertexCount int) {
	if r.vao == 0 || vertexCount == 0 {
		return
	}
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vertexCount))
	gl.BindVertexArray(0)
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	r.release()
	gl.DeleteProgram(r.program)
}

func (r *Renderer) release() {
	if r.vao == 0 {
		return
	}
	gl.DeleteBuffers(int32(len(r.vbos)), &r.vbos[0])
	gl.DeleteVertexArrays(1, &r.vao)
	r.vao = 0
	r.vbos = [3]uint32{}
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

// ── shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
