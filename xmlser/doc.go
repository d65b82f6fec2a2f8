// Package xmlser writes beans to a self-describing XML form and reads them back.
//
// A document has a single root element naming the concrete bean type:
//
//	<bean type="example.com/shapes.Drawing">
//	  <title>plan</title>
//	  <main type="*.Circle">
//	    <radius>2</radius>
//	  </main>
//	  <shapes metatype="List">
//	    <item type="*.Square">
//	      <side>1</side>
//	    </item>
//	    <item null="true"></item>
//	  </shapes>
//	</bean>
//
// Property elements follow the declared property order. A type attribute is
// written only when the runtime type differs from the declared one. In an
// interface slot it names the exact dynamic type, so "*.Circle" reads back as
// a pointer and ".Circle" as a value. A leading dot makes the name relative to
// the package of the root bean. Collections
// carry a metatype and one item element per entry; equal neighbours in
// ordered collections are merged with a count attribute. Nil values are
// written as null="true" so that they are distinguishable from absent ones.
//
// A Writer or Reader handles one document at a time and must not be shared
// between goroutines. Settings are immutable values and may be shared freely.
package xmlser
