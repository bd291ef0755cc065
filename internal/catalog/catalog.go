package catalog

import "photostudio/internal/domain"

// Catalog holds the fixed set of photographic styles offered to the user.
// It is populated once at startup and is safe for concurrent reads.
type Catalog struct {
	order  []string
	styles map[string]domain.StyleDescriptor
}

// New returns the built-in style catalog.
func New() *Catalog {
	c := &Catalog{styles: make(map[string]domain.StyleDescriptor)}
	for _, s := range builtinStyles {
		c.order = append(c.order, s.ID)
		c.styles[s.ID] = s
	}
	return c
}

// Style looks up a descriptor by id.
func (c *Catalog) Style(id string) (domain.StyleDescriptor, bool) {
	s, ok := c.styles[id]
	return s, ok
}

// List returns all styles in display order.
func (c *Catalog) List() []domain.StyleDescriptor {
	out := make([]domain.StyleDescriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.styles[id])
	}
	return out
}

var builtinStyles = []domain.StyleDescriptor{
	{
		ID:             "hero",
		Name:           "Hero Shot",
		Description:    "A visually striking shot that showcases your product in its best light.",
		PromptTemplate: "Generate a visually stunning, high-impact hero shot of the product. The product must be the central focus, captured with dramatic, high-contrast lighting that accentuates its form and texture. The background should be clean yet powerful, complementing the product without distraction. The overall mood should be premium, aspirational, and cinematic.",
		PreviewURL:     "https://i.imgur.com/2fq4VQy.jpeg",
	},
	{
		ID:             "closeup",
		Name:           "Close-up Photography",
		Description:    "Highlights the fine details, texture, and materials of your product.",
		PromptTemplate: "Create a compelling macro-style, extreme close-up shot of the provided product. Focus on the most intricate details, textures, and materials. The lighting must be precise, highlighting these specific features to reveal the product's quality and craftsmanship. The composition should be tight, artistic, and abstract.",
		PreviewURL:     "https://i.imgur.com/FSagWNQ.jpeg",
	},
	{
		ID:             "lifestyle",
		Name:           "Lifestyle Photography",
		Description:    "Shows your product in a real-life setting to connect with customers.",
		PromptTemplate: "Create a realistic and aspirational lifestyle scene featuring this product in a natural context of use. The scene should tell a story and evoke a specific mood (e.g., cozy morning, busy city life, relaxing vacation). Ensure the lighting is natural and the atmosphere is authentic. The product should be seamlessly integrated into the environment, looking like it truly belongs there.",
		PreviewURL:     "https://i.imgur.com/wE21foO.jpeg",
	},
	{
		ID:             "studio",
		Name:           "Studio Photography",
		Description:    "Clean and polished look with consistent lighting and background.",
		PromptTemplate: "Generate a professional studio photograph of the product, perfectly presented. Use clean, even, and soft lighting to eliminate harsh shadows and create gentle gradients. The background should be a seamless, solid, neutral color (like light gray, #f0f0f0) to ensure the product is the sole focus. The overall look must be polished, sharp, and consistent.",
		PreviewURL:     "https://i.imgur.com/c4KGr9L.jpeg",
	},
	{
		ID:             "flatlay",
		Name:           "Flat-Lay Photography",
		Description:    "Captures products from above for a clean, stylish composition.",
		PromptTemplate: "Create a stylish and well-composed flat-lay photograph, shot from a top-down perspective (90-degree angle). Arrange the product neatly on a clean, textured surface (like wood, marble, or linen) alongside a few complementary, aesthetically pleasing props that enhance its story and color palette. The lighting should be bright, soft, and even across the entire composition.",
		PreviewURL:     "https://i.imgur.com/uWNlzzA.png",
	},
	{
		ID:             "ecommerce",
		Name:           "E-commerce Photography",
		Description:    "Clear, accurate shots that follow platform-specific guidelines.",
		PromptTemplate: "Generate a clear and accurate e-commerce product shot optimized for marketplaces like Amazon or Shopify. The product must be the sole focus, sharply in focus from edge to edge, and well-lit to show its true colors and details. Styling should be minimal to none. The background should be simple and non-distracting, often a light neutral gray or a subtle gradient.",
		PreviewURL:     "https://i.imgur.com/AbwB5uB.jpeg",
	},
	{
		ID:             "whitebg",
		Name:           "White Background Shots",
		Description:    "The e-commerce gold standard. Clean, minimal, and distraction-free.",
		PromptTemplate: "Isolate the product from its current background and place it on a completely pure, seamless white background (#FFFFFF). The lighting on the product should be clean, bright, and diffused to eliminate all but the softest contact shadows, ensuring the product's colors and details are accurately represented. The final image should be suitable for a high-end e-commerce product listing.",
		PreviewURL:     "https://i.imgur.com/3Hn6MM1.jpeg",
	},
}
