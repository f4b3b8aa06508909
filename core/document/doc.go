// Package document edits exported block documents.
//
// A block export is an XML document whose interface lists Sections, each holding
// Members. An array member carries one Subelement per addressed index, keyed by
// its Path attribute, and each Subelement may hold a multilingual Comment:
//
//	<Section Name="Static">
//	  <Member Name="Valves" Datatype="Array[0..20] of &quot;UDT_Valve&quot;">
//	    <Subelement Path="1">
//	      <Comment>
//	        <MultiLanguageText Lang="en-US">V1 - Inlet valve</MultiLanguageText>
//	      </Comment>
//	    </Subelement>
//	  </Member>
//	</Section>
//
// The Patcher rewrites those per-index comments. It only touches the Subelements
// of the named member in the Static section; everything else in the document is
// left as exported.
package document
