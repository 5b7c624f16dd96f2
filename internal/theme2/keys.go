package theme2

// basePaletteKeys become Root colour variables.
var basePaletteKeys = []string{"bg", "fg", "text", "link", "accent", "cBlue", "cRed", "cGreen", "cOrange"}

type target struct {
	component string
	variant   string
	state     []string
	parent    string
}

// shadowTargets maps legacy shadow slots onto the components they style.
var shadowTargets = []struct {
	key string
	target
}{
	{"panel", target{component: "Panel"}},
	{"topBar", target{component: "TopBar"}},
	{"popup", target{component: "Popover"}},
	{"avatar", target{component: "Avatar"}},
	{"avatarStatus", target{component: "Avatar", parent: "Post"}},
	{"panelHeader", target{component: "PanelHeader"}},
	{"button", target{component: "Button"}},
	{"buttonHover", target{component: "Button", state: []string{"hover"}}},
	{"buttonPressed", target{component: "Button", state: []string{"pressed"}}},
	{"input", target{component: "Input"}},
}

// radiiTargets maps legacy radius slots onto components.
var radiiTargets = []struct {
	key string
	target
}{
	{"btn", target{component: "Button"}},
	{"input", target{component: "Input"}},
	{"panel", target{component: "Panel"}},
	{"avatar", target{component: "Avatar"}},
	{"avatarAlt", target{component: "Avatar", variant: "compact"}},
	{"tooltip", target{component: "Popover"}},
	{"attachment", target{component: "Attachment"}},
	{"chatMessage", target{component: "ChatMessage"}},
}

// extendedPrefixes group the remaining colour keys by the component they
// describe, in conversion order.
var extendedPrefixes = []struct {
	prefix string
	target
}{
	{"popover", target{component: "Popover"}},
	{"panel", target{component: "PanelHeader"}},
	{"topBar", target{component: "TopBar"}},
	{"btn", target{component: "Button"}},
	{"input", target{component: "Input"}},
	{"selectedMenu", target{component: "MenuItem", state: []string{"hover"}}},
	{"alert", target{component: "Alert"}},
	{"alertPopup", target{component: "Alert", parent: "Popover"}},
	{"badge", target{component: "Badge"}},
	{"post", target{component: "Post"}},
	{"selectedPost", target{component: "Post", state: []string{"selected"}}},
	{"poll", target{component: "PollGraph"}},
	{"chatMessage", target{component: "ChatMessage"}},
}

// textSuffixes mark keys that colour text drawn on the prefix component
// rather than its background.
var textSuffixes = map[string]bool{
	"Text":      true,
	"Faint":     true,
	"Link":      true,
	"Icon":      true,
	"Greentext": true,
	"Cyantext":  true,
	"Border":    true,
}
