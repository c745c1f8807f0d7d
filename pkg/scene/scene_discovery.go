package scene

import (
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Info describes a registered scene
type Info struct {
	ID          string `json:"id"`          // Unique identifier, the name passed to Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string `json:"name"`
	Scenes []Info `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	groupBasic    = "Basic Scenes"
	groupShowcase = "Showcase Scenes"
)

// definition knows how to build one scene
type definition struct {
	info     Info
	camera   func() renderer.CameraConfig
	sampling func() renderer.SamplingConfig
	build    func(sampler core.Sampler) *geometry.HittableList
}

var registry = map[string]definition{}

func register(id, description, group string,
	camera func() renderer.CameraConfig,
	sampling func() renderer.SamplingConfig,
	build func(sampler core.Sampler) *geometry.HittableList) {
	registry[id] = definition{
		info: Info{
			ID:          id,
			DisplayName: titleCase(id),
			Description: description,
			Group:       group,
		},
		camera:   camera,
		sampling: sampling,
		build:    build,
	}
}

func init() {
	register("default", "Ground, diffuse center sphere, hollow glass and fuzzy metal", groupBasic,
		defaultSceneCamera, renderer.DefaultSamplingConfig, buildDefaultScene)
	register("single-sphere", "One diffuse sphere under the sky, 1 sample and 1 bounce", groupBasic,
		renderer.DefaultCameraConfig, singleSphereSampling, buildSingleSphere)
	register("empty", "No objects, only the sky gradient", groupBasic,
		renderer.DefaultCameraConfig, renderer.DefaultSamplingConfig, buildEmpty)
	register("random-spheres", "Hundreds of random spheres with motion blur and depth of field", groupShowcase,
		randomSpheresCamera, renderer.DefaultSamplingConfig, buildRandomSpheres)
	register("sphere-grid", "20x20 grid of rainbow-colored metallic spheres", groupShowcase,
		sphereGridCamera, sphereGridSampling, buildSphereGrid)
}

// List returns every registered scene sorted by ID
func List() []Info {
	scenes := make([]Info, 0, len(registry))
	for _, def := range registry {
		scenes = append(scenes, def.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// ListAllScenes returns the registered scenes grouped by category, basic scenes first
func ListAllScenes() ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]Info)
	for _, info := range List() {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	// Create ordered groups (basic first, then alphabetical)
	var groupNames []string
	for groupName := range groupMap {
		if groupName != groupBasic {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if basic, exists := groupMap[groupBasic]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: groupBasic, Scenes: basic})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response
}

// titleCase converts an identifier to title case
// e.g., "random-spheres" -> "Random Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
